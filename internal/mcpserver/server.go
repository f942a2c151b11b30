// Package mcpserver exposes the ARGO database to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AdithyaSM31/FloatChart-AI/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName = "ArgoDBTools"
	Version    = "1.0.0"
	// MaxRows caps the rows returned by run_sql.
	MaxRows = 100
)

// Database is what the tools need from the data source.
type Database interface {
	service.QueryExecutor
	ListTables(ctx context.Context) ([]string, error)
}

type tools struct {
	db Database
}

// New builds the MCP server with the run_sql and list_tables tools.
func New(db Database) *server.MCPServer {
	t := &tools{db: db}
	s := server.NewMCPServer(ServerName, Version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("run_sql",
		mcp.WithDescription(fmt.Sprintf("Execute SQL query on argo_data and return up to %d rows.", MaxRows)),
		mcp.WithString("query", mcp.Required(), mcp.Description("PostgreSQL query to run")),
	), t.runSQL)

	s.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the tables in the public schema."),
	), t.listTables)

	return s
}

// Serve runs the server on stdin/stdout until the input closes.
func Serve(db Database) error {
	return server.ServeStdio(New(db))
}

func (t *tools) runSQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rs, err := t.db.Execute(ctx, query)
	if err != nil {
		return jsonResult(map[string]interface{}{"error": err.Error()})
	}
	return jsonResult(map[string]interface{}{"rows": rs.Head(MaxRows).Normalize()})
}

func (t *tools) listTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables, err := t.db.ListTables(ctx)
	if err != nil {
		return jsonResult(map[string]interface{}{"error": err.Error()})
	}
	return jsonResult(map[string]interface{}{"tables": tables})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
