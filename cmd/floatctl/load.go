package main

import (
	"fmt"
	"os"

	"github.com/AdithyaSM31/FloatChart-AI/internal/loader"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loadFile  string
	loadTable string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the ARGO table with the rows of a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(loadFile)
		if err != nil {
			return err
		}
		defer f.Close()

		table, err := loader.ReadCSV(f)
		if err != nil {
			return err
		}
		pterm.Printf("Read %d rows with %d columns from %s\n", len(table.Rows), len(table.Headers), loadFile)

		target := loadTable
		if target == "" {
			target = cfg.Database.Table
		}

		l, err := loader.Connect(cmd.Context(), cfg.Database.URL())
		if err != nil {
			pterm.Printf("❌ Failed to connect to database\n")
			return err
		}
		defer l.Close()

		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Loading into %s", target))
		n, err := l.Load(cmd.Context(), target, table, func(done int) {
			spinner.UpdateText(fmt.Sprintf("Loading into %s: %d/%d rows", target, done, len(table.Rows)))
		})
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success(fmt.Sprintf("Loaded %d rows into %s", n, target))
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVarP(&loadFile, "file", "f", "", "CSV file to load")
	loadCmd.Flags().StringVar(&loadTable, "table", "", "Target table (defaults to the configured table)")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}
