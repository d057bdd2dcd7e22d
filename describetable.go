package hanamcp

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const describeTableSQL = `
SELECT COLUMN_NAME, DATA_TYPE_NAME, LENGTH, SCALE, IS_NULLABLE
FROM SYS.TABLE_COLUMNS
WHERE SCHEMA_NAME = ? AND TABLE_NAME = ?
ORDER BY POSITION
`

// DescribeTable returns the column metadata of a table as a raw result
// set, in column position order. Both identifiers are upper-cased to match
// the catalog convention and bound as parameters. A table with no matching
// columns yields an empty result set, not an error.
func (h *HanaMcp) DescribeTable(ctx context.Context, input DescribeTableInput) (*DescribeTableOutput, error) {
	startTime := time.Now()

	if input.Schema == "" || input.Table == "" {
		return nil, fmt.Errorf("schema and table must not be empty")
	}
	schema := strings.ToUpper(input.Schema)
	table := strings.ToUpper(input.Table)

	queryCtx, cancel := context.WithTimeout(ctx, h.introspectionTimeout())
	defer cancel()

	sess, err := h.conns.Acquire(queryCtx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	rows, err := sess.QueryContext(queryCtx, describeTableSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("DescribeTable query failed: %w", err)
	}

	result, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("DescribeTable collect failed: %w", err)
	}

	h.logger.Info().
		Str("schema", schema).
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int("column_count", len(result.Rows)).
		Msg("DescribeTable executed")

	return &DescribeTableOutput{Columns: result.Columns, Rows: result.Rows}, nil
}
