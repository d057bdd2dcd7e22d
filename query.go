package hanamcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// RunSQL executes an arbitrary SQL statement and returns only QueryOutput.
// All errors (HANA errors, driver errors, timeouts) are converted to
// output.Error, so callers only need to check output.Error, never a Go
// error. The error message is evaluated against error_prompts patterns —
// any matching guidance messages are appended.
//
// The statement text is executed verbatim: run_sql is the deliberate
// raw-SQL escape hatch, and access control is the caller's responsibility.
func (h *HanaMcp) RunSQL(ctx context.Context, input QueryInput) *QueryOutput {
	startTime := time.Now()
	sqlText := input.SQL

	if len(sqlText) > h.config.Query.MaxSQLLength {
		return h.handleError(fmt.Errorf("SQL statement too long: %d bytes exceeds maximum of %d bytes", len(sqlText), h.config.Query.MaxSQLLength))
	}

	// Bounded execution timeout per statement. The original gateway had
	// none; the bound is a defensive addition.
	execTimeout, timeoutRule := h.timeoutMgr.Resolve(sqlText)
	queryCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	sess, err := h.conns.Acquire(queryCtx)
	if err != nil {
		return h.handleError(err)
	}
	defer sess.Close()

	result, err := h.execute(queryCtx, sess, sqlText, nil)
	if err != nil {
		return h.handleError(err)
	}

	h.truncateIfNeeded(result)

	logEvent := h.logger.Info().
		Str("sql", truncateForLog(sqlText, 200)).
		Dur("duration", time.Since(startTime))
	if result.Mutation {
		logEvent = logEvent.Int64("rows_affected", result.RowsAffected)
	} else {
		logEvent = logEvent.Int("row_count", len(result.Rows))
	}
	if timeoutRule != "" {
		logEvent = logEvent.Str("timeout_rule", timeoutRule)
	}
	logEvent.Msg("statement executed")

	return result
}

// execute runs one statement on a dedicated session inside an explicit
// transaction. Row-returning statements collect the full result set and
// roll back (nothing to persist); mutations commit explicitly and capture
// the affected-row count. Classification happens up front via
// isRowReturning — database/sql requires choosing Query vs Exec before
// execution, so the driver-side column descriptor cannot be inspected
// first. The descriptor is re-checked after the fact: a statement that
// went through the Query path but came back with zero columns (a CALL of
// a procedure without a result set) is really a mutation and is
// committed, not rolled back.
func (h *HanaMcp) execute(ctx context.Context, sess Session, sqlText string, args []any) (*QueryOutput, error) {
	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if isRowReturning(sqlText) {
		rows, err := tx.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return nil, err
		}
		result, err := collectRows(rows)
		if err != nil {
			return nil, err
		}
		if len(result.Columns) == 0 {
			// No result set came back, so the statement may have written.
			// The affected-row count is not observable on this path.
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			return &QueryOutput{Mutation: true}, nil
		}
		return result, nil
	}

	res, err := tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &QueryOutput{Mutation: true, RowsAffected: affected}, nil
}

// rowReturningPrefixes are the statement forms that can produce a result
// set in HANA. Everything else is treated as a mutation: executed,
// committed, and reported as an affected-row count (zero affected rows
// included). CALL is listed here because a procedure may return rows;
// one that does not is detected by its empty column list in execute and
// committed there.
var rowReturningPrefixes = []string{"SELECT", "WITH", "CALL", "VALUES"}

// isRowReturning classifies a statement before execution.
func isRowReturning(sqlText string) bool {
	s := strings.ToUpper(strings.TrimSpace(stripLeadingComments(sqlText)))
	for _, prefix := range rowReturningPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// stripLeadingComments removes leading whitespace, line comments, and
// block comments so the classifier sees the first real keyword.
func stripLeadingComments(s string) string {
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = s[idx+2:]
		default:
			return s
		}
	}
}

// handleError converts any error into a QueryOutput with an error message.
// The message is evaluated against error_prompts — matching guidance
// messages are appended.
func (h *HanaMcp) handleError(err error) *QueryOutput {
	errMsg := err.Error()
	prompt, patterns := h.errPrompts.Match(errMsg)

	logEvent := h.logger.Error().Err(err)
	if len(patterns) > 0 {
		logEvent = logEvent.Strs("error_prompts", patterns)
	}
	logEvent.Msg("statement error")

	if prompt != "" {
		errMsg = errMsg + "\n\n" + prompt
	}
	return &QueryOutput{Error: errMsg}
}

// truncateIfNeeded caps oversized row payloads (in characters).
func (h *HanaMcp) truncateIfNeeded(output *QueryOutput) {
	if output.Mutation {
		return
	}
	jsonBytes, _ := json.Marshal(output.Rows)
	jsonStr := string(jsonBytes)
	if utf8.RuneCountInString(jsonStr) <= h.config.Query.MaxResultLength {
		return
	}
	runes := []rune(jsonStr)
	truncated := string(runes[:h.config.Query.MaxResultLength])
	output.Rows = nil
	output.Error = truncated + "...[truncated] Result is too long! Add limits in your query!"
}

// truncateForLog truncates a string for log output to avoid oversized log
// entries.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	truncateAt := maxLen
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	return s[:truncateAt] + "...[truncated]"
}
