package hanamcp

// QueryInput is the input for the run_sql tool.
type QueryInput struct {
	SQL string `json:"query"`
}

// QueryOutput is the outcome of executing a single SQL statement. It is a
// discriminated result: when Error is non-empty the statement failed; when
// Mutation is true the statement produced no result set and RowsAffected
// holds the count; otherwise Columns and Rows hold the result set in
// database order.
type QueryOutput struct {
	Columns      []string
	Rows         [][]any
	Mutation     bool
	RowsAffected int64
	Error        string
}

// RowsPayload is the wire shape for a row-returning statement.
// Columns and Rows are always present, even when empty.
type RowsPayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// AffectedPayload is the wire shape for a mutation.
type AffectedPayload struct {
	Message string `json:"message"`
}

// ListSchemasInput is the input for the list_schemas tool.
type ListSchemasInput struct{}

// ListSchemasOutput is the output of the list_schemas tool.
type ListSchemasOutput struct {
	Schemas []string `json:"schemas"`
}

// ListTablesInput is the input for the list_tables tool.
type ListTablesInput struct {
	Schema string `json:"schema"`
}

// ListTablesOutput is the output of the list_tables tool.
type ListTablesOutput struct {
	Tables []string `json:"tables"`
}

// DescribeTableInput is the input for the describe_table tool.
type DescribeTableInput struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

// DescribeTableOutput is the output of the describe_table tool: the raw
// catalog result set (COLUMN_NAME, DATA_TYPE_NAME, LENGTH, SCALE,
// IS_NULLABLE) in column position order.
type DescribeTableOutput struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
