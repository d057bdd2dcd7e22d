package hanamcp

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const listTablesSQL = "SELECT TABLE_NAME FROM SYS.TABLES WHERE SCHEMA_NAME = ? ORDER BY TABLE_NAME"

// ListTables returns the names of all tables in the given schema. The
// schema identifier is upper-cased to match the catalog convention and is
// always bound as a parameter, never interpolated into the statement.
func (h *HanaMcp) ListTables(ctx context.Context, input ListTablesInput) (*ListTablesOutput, error) {
	startTime := time.Now()

	if input.Schema == "" {
		return nil, fmt.Errorf("schema must not be empty")
	}
	schema := strings.ToUpper(input.Schema)

	queryCtx, cancel := context.WithTimeout(ctx, h.introspectionTimeout())
	defer cancel()

	sess, err := h.conns.Acquire(queryCtx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	rows, err := sess.QueryContext(queryCtx, listTablesSQL, schema)
	if err != nil {
		return nil, fmt.Errorf("ListTables query failed: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ListTables scan failed: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTables rows error: %w", err)
	}

	h.logger.Info().
		Str("schema", schema).
		Dur("duration", time.Since(startTime)).
		Int("table_count", len(tables)).
		Msg("ListTables executed")

	return &ListTablesOutput{Tables: tables}, nil
}
