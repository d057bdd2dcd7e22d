package hanamcp

import (
	"context"
	"fmt"
	"time"
)

const listSchemasSQL = "SELECT SCHEMA_NAME FROM SYS.SCHEMAS ORDER BY SCHEMA_NAME"

// ListSchemas returns the names of all schemas in the database, in catalog
// order.
func (h *HanaMcp) ListSchemas(ctx context.Context, input ListSchemasInput) (*ListSchemasOutput, error) {
	startTime := time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, h.introspectionTimeout())
	defer cancel()

	sess, err := h.conns.Acquire(queryCtx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	rows, err := sess.QueryContext(queryCtx, listSchemasSQL)
	if err != nil {
		return nil, fmt.Errorf("ListSchemas query failed: %w", err)
	}
	defer rows.Close()

	schemas := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ListSchemas scan failed: %w", err)
		}
		schemas = append(schemas, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSchemas rows error: %w", err)
	}

	h.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("schema_count", len(schemas)).
		Msg("ListSchemas executed")

	return &ListSchemasOutput{Schemas: schemas}, nil
}
