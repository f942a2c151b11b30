package main

import (
	"github.com/AdithyaSM31/FloatChart-AI/internal/mcpserver"
	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the ARGO database tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := service.Connect(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		return mcpserver.Serve(db)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
