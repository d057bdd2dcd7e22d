// Package hanamcp exposes a SAP HANA database to AI agents through the
// Model Context Protocol (MCP).
//
// It provides four tools: list_schemas, list_tables, describe_table, and
// run_sql. The three introspection tools run fixed, parameter-bound
// catalog queries against the SYS views; run_sql executes arbitrary SQL
// verbatim — access control is deliberately left to the surrounding
// deployment, not this gateway.
//
// Every invocation acquires a dedicated session, runs exactly one
// statement, and releases the session on all exit paths. Row-returning
// statements are collected in full and returned as ordered columns and
// rows; mutations are committed explicitly and reported as an
// affected-row count. Errors never surface as protocol faults: each tool
// answers with either a JSON payload or a human-readable prefixed error
// string.
//
// # Encoding
//
// Result values are converted to JSON-safe forms: timestamps become
// ISO-8601 strings (timezone-naive for HANA's zone-less types), NULL maps
// to null, and anything unrecognized falls back to its default textual
// representation. Known limitation: DECIMAL values are converted to the
// nearest float64 and are not preserved digit-for-digit. Callers that
// need exact decimals should cast to VARCHAR in their SQL.
//
// # Library Usage
//
//	h, err := hanamcp.New(ctx, hanamcp.ConnectionConfig{
//		Host:     "hana.example.com",
//		Port:     30015,
//		User:     "SYSTEM",
//		Password: password,
//	}, hanamcp.Config{}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer h.Close()
//
//	// Use directly
//	output := h.RunSQL(ctx, hanamcp.QueryInput{SQL: "SELECT * FROM DUMMY"})
//
//	// Or register as MCP tools
//	hanamcp.RegisterMCPTools(mcpServer, h)
//
// Connections are always encrypted; server certificate validation is
// disabled by the configured trust model. This policy is fixed and not
// configurable.
package hanamcp
