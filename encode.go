package hanamcp

import (
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"time"
)

// collectRows drains a result set into ordered columns and rows. Both are
// non-nil even when empty: a zero-row SELECT is a valid result, not an
// error.
func collectRows(rows *sql.Rows) (*QueryOutput, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []string{}
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		row := make([]any, len(columns))
		for i, v := range values {
			row[i] = convertValue(v)
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryOutput{Columns: columns, Rows: resultRows}, nil
}

// convertValue converts a driver-returned value to a JSON-safe Go value.
// The conversion is total: every supported variant maps deterministically,
// and unknown types fall back to their default textual representation.
//
// Decimals become the nearest float64. That is a deliberate, documented
// precision trade-off carried over from the original wire contract —
// callers needing exact decimals must cast to VARCHAR in their SQL.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case float32:
		return convertFloat(float64(val))
	case float64:
		return convertFloat(val)
	case time.Time:
		return formatTimestamp(val)
	case *big.Rat:
		f, _ := val.Float64()
		return f
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func convertFloat(f float64) any {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return f
}

// formatTimestamp renders a timestamp as ISO-8601 with up to microsecond
// precision. HANA timestamps carry no zone and arrive in UTC, so those are
// rendered timezone-naive; a value in any other location keeps its offset.
func formatTimestamp(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format("2006-01-02T15:04:05.999999")
	}
	return t.Format("2006-01-02T15:04:05.999999-07:00")
}

// Payload returns the canonical wire shape for the output: columns/rows
// for a row-returning statement, the affected-count message for a
// mutation. Must only be called on non-error outputs.
func (o *QueryOutput) Payload() any {
	if o.Mutation {
		return AffectedPayload{Message: fmt.Sprintf("%d rows affected.", o.RowsAffected)}
	}
	columns := o.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := o.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return RowsPayload{Columns: columns, Rows: rows}
}
