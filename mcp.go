package hanamcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers list_schemas, list_tables, describe_table,
// and run_sql as MCP tools on the given MCP server. Every tool answers
// with a single string: a JSON payload on success, or a human-readable
// prefixed error message on failure — never a protocol-level fault.
func RegisterMCPTools(mcpServer *server.MCPServer, h *HanaMcp) {
	listSchemasTool := mcp.NewTool("list_schemas",
		mcp.WithDescription("List all schemas in the SAP HANA database."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listSchemasTool, h.loggedToolHandler("list_schemas", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		output, err := h.ListSchemas(ctx, ListSchemasInput{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing schemas: %v", err)), nil
		}
		return marshalResult(output)
	}))

	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables in the given schema."),
		mcp.WithString("schema",
			mcp.Required(),
			mcp.Description("The schema name (case-insensitive)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(listTablesTool, h.loggedToolHandler("list_tables", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		schema, err := req.RequireString("schema")
		if err != nil {
			return mcp.NewToolResultError("schema parameter is required"), nil
		}
		output, err := h.ListTables(ctx, ListTablesInput{Schema: schema})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing tables for schema %s: %v", schema, err)), nil
		}
		return marshalResult(output)
	}))

	describeTableTool := mcp.NewTool("describe_table",
		mcp.WithDescription("Describe the columns of a given table."),
		mcp.WithString("schema",
			mcp.Required(),
			mcp.Description("The schema name (case-insensitive)"),
		),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("The table name (case-insensitive)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	mcpServer.AddTool(describeTableTool, h.loggedToolHandler("describe_table", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		schema, err := req.RequireString("schema")
		if err != nil {
			return mcp.NewToolResultError("schema parameter is required"), nil
		}
		table, err := req.RequireString("table")
		if err != nil {
			return mcp.NewToolResultError("table parameter is required"), nil
		}
		output, err := h.DescribeTable(ctx, DescribeTableInput{Schema: schema, Table: table})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error describing table %s.%s: %v", schema, table, err)), nil
		}
		return marshalResult(output)
	}))

	runSQLTool := mcp.NewTool("run_sql",
		mcp.WithDescription("Run a SQL statement against the configured SAP HANA database. Returns results as JSON."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL statement to execute"),
		),
	)

	mcpServer.AddTool(runSQLTool, h.loggedToolHandler("run_sql", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		output := h.RunSQL(ctx, QueryInput{SQL: query})
		if output.Error != "" {
			return mcp.NewToolResultError(fmt.Sprintf("SQL Error: %s", output.Error)), nil
		}
		return marshalResult(output.Payload())
	}))
}

// marshalResult encodes a tool output value as a JSON text result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal tool result"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// loggedToolHandler wraps a handler so every invocation leaves one log
// line carrying the tool name and the payload sizes in both directions.
func (h *HanaMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handler(ctx, req)
		h.logger.Info().
			Str("tool", tool).
			Int("request_bytes", argumentsSize(req)).
			Int("response_bytes", resultSize(result)).
			Msg("tool call")
		return result, err
	}
}

// argumentsSize measures the JSON-encoded size of the call arguments.
// Absent or unencodable arguments count as zero.
func argumentsSize(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(encoded)
}

// resultSize sums the text content of a tool result in bytes.
func resultSize(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	size := 0
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			size += len(text.Text)
		}
	}
	return size
}
