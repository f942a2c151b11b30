package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AdithyaSM31/FloatChart-AI/internal/indexer"
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/AdithyaSM31/FloatChart-AI/internal/retriever"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	indexFile   string
	indexSource string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed a text file into the vector index",
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(indexFile)
		if err != nil {
			return err
		}
		source := indexSource
		if source == "" {
			source = filepath.Base(indexFile)
		}

		client := retriever.NewWeaviateClient(cfg.Vector.URL)
		if client == nil {
			return fmt.Errorf("%w: set WEAVIATE_URL", retriever.ErrUnavailable)
		}
		ix := indexer.New(client, llm.NewClient(cfg.LLM), cfg.Vector.Class)

		if err := ix.EnsureClass(cmd.Context()); err != nil {
			return err
		}

		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Indexing %s into %s", source, cfg.Vector.Class))
		n, err := ix.Index(cmd.Context(), source, string(content))
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success(fmt.Sprintf("Indexed %d chunks from %s", n, source))
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "Text file to index")
	indexCmd.Flags().StringVar(&indexSource, "source", "", "Source label stored with each chunk (defaults to the file name)")
	_ = indexCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(indexCmd)
}
