package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/app"
	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
	"github.com/AdithyaSM31/FloatChart-AI/internal/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// maxTableRows limits the rows rendered in the terminal table.
const maxTableRows = 20

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the ARGO data",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question must not be empty")
		}

		a := app.New(cmd.Context(), cfg)
		defer a.Close()

		resp, err := a.Orchestrator.Ask(cmd.Context(), question)
		if err != nil {
			return fmt.Errorf("an internal error occurred: %w", err)
		}

		if askJSON {
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		printResponse(resp)
		return nil
	},
}

func printResponse(resp *models.FinalResponse) {
	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Answer")).
		WithPadding(1).
		Println(resp.Summary)

	if resp.IsMultiPart {
		for _, rec := range resp.SubAnswers {
			pterm.DefaultSection.Println(rec.Question)
			pterm.Println(rec.Summary)
			printRecord(rec.SQLQuery, rec.Data)
		}
	} else {
		printRecord(resp.SQLQuery, resp.Data)
	}

	for _, d := range resp.Degraded {
		pterm.Warning.Printf("%s fell back: %s\n", d.Stage, d.Reason)
	}
}

func printRecord(sqlQuery string, rows []dataset.Row) {
	pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint(sqlQuery))
	if len(rows) == 0 {
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData(rows, maxTableRows)).Render(); err != nil {
		pterm.Error.Println(err)
	}
	if len(rows) > maxTableRows {
		pterm.Printf("... %d more rows\n", len(rows)-maxTableRows)
	}
}

// tableData lays rows out under a sorted header, keeping at most limit rows.
func tableData(rows []dataset.Row, limit int) pterm.TableData {
	colSet := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			colSet[col] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for col := range colSet {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	if len(rows) > limit {
		rows = rows[:limit]
	}
	data := pterm.TableData{cols}
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = dataset.FormatValue(row[col])
		}
		data = append(data, line)
	}
	return data
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the raw JSON response")
	rootCmd.AddCommand(askCmd)
}
