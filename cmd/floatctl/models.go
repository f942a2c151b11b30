package main

import (
	"github.com/AdithyaSM31/FloatChart-AI/internal/llm"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := llm.NewClient(cfg.LLM)
		names, err := client.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		items := make([]pterm.BulletListItem, 0, len(names))
		for _, name := range names {
			items = append(items, pterm.BulletListItem{Level: 0, Text: name})
		}
		pterm.DefaultSection.Printf("%s models at %s", client.Provider(), client.BaseURL())
		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
