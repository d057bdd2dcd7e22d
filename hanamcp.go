package hanamcp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanaops/hana-mcp/internal/errprompt"
	"github.com/hanaops/hana-mcp/internal/timeout"
)

// HanaMcp is the core engine behind the list_schemas, list_tables,
// describe_table, and run_sql tools. Every invocation runs on its own
// dedicated session, so all exported methods are safe for concurrent use
// from multiple goroutines.
type HanaMcp struct {
	config     Config
	conns      sessionSource
	errPrompts *errprompt.Matcher
	timeoutMgr *timeout.Manager
	logger     zerolog.Logger
}

// New creates a new HanaMcp instance connected per conn.
// Panics on invalid config. Returns error only for runtime failures.
func New(ctx context.Context, conn ConnectionConfig, config Config, logger zerolog.Logger) (*HanaMcp, error) {
	if conn.Host == "" {
		panic("hanamcp: connection.host must be set")
	}
	if conn.Port < 1 || conn.Port > 65535 {
		panic(fmt.Sprintf("hanamcp: connection.port %d out of range 1-65535", conn.Port))
	}
	if conn.User == "" {
		panic("hanamcp: connection.user must be set")
	}

	config = withDefaults(config)

	mgr, err := NewConnManager(conn, config.MaxSessions, logger)
	if err != nil {
		return nil, err
	}
	h := assemble(config, mgr, logger)
	return h, nil
}

// NewWithDB creates a HanaMcp instance on an already-open database handle.
// The caller keeps ownership of the handle: Close on the returned instance
// does not close it. Intended for callers that manage the handle
// themselves and for tests that substitute a mock driver.
// Panics on invalid config.
func NewWithDB(db *sql.DB, config Config, logger zerolog.Logger) *HanaMcp {
	config = withDefaults(config)
	return assemble(config, newConnManagerFromDB(db, logger), logger)
}

func withDefaults(config Config) Config {
	if config.MaxSessions == 0 {
		config.MaxSessions = 5
	}
	if config.MaxSessions < 0 {
		panic("hanamcp: max_sessions must be > 0")
	}
	if config.Query.DefaultTimeoutSeconds == 0 {
		config.Query.DefaultTimeoutSeconds = 30
	}
	if config.Query.IntrospectionTimeoutSeconds == 0 {
		config.Query.IntrospectionTimeoutSeconds = 10
	}
	if config.Query.MaxSQLLength == 0 {
		config.Query.MaxSQLLength = 100000
	}
	if config.Query.MaxResultLength == 0 {
		config.Query.MaxResultLength = 100000
	}
	if config.Query.DefaultTimeoutSeconds < 0 {
		panic("hanamcp: query.default_timeout_seconds must be > 0")
	}
	if config.Query.IntrospectionTimeoutSeconds < 0 {
		panic("hanamcp: query.introspection_timeout_seconds must be > 0")
	}
	if config.Query.MaxSQLLength < 0 {
		panic("hanamcp: query.max_sql_length must be > 0")
	}
	if config.Query.MaxResultLength < 0 {
		panic("hanamcp: query.max_result_length must be > 0")
	}
	for _, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			panic(fmt.Sprintf("hanamcp: timeout_rule with pattern %q has timeout_seconds <= 0", rule.Pattern))
		}
	}
	return config
}

func assemble(config Config, conns sessionSource, logger zerolog.Logger) *HanaMcp {
	rules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		rules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	tmgr := timeout.NewManager(timeout.Config{
		DefaultTimeout: time.Duration(config.Query.DefaultTimeoutSeconds) * time.Second,
		Rules:          rules,
	})

	prompts := make([]errprompt.Rule, len(config.ErrorPrompts))
	for i, r := range config.ErrorPrompts {
		prompts[i] = errprompt.Rule{Pattern: r.Pattern, Message: r.Message}
	}

	return &HanaMcp{
		config:     config,
		conns:      conns,
		errPrompts: errprompt.NewMatcher(prompts),
		timeoutMgr: tmgr,
		logger:     logger,
	}
}

// Ping verifies database connectivity. Only meaningful for instances
// created with New; returns nil when the session source has no handle of
// its own.
func (h *HanaMcp) Ping(ctx context.Context) error {
	if mgr, ok := h.conns.(*ConnManager); ok {
		return mgr.Ping(ctx)
	}
	return nil
}

// Close releases the database handle for instances created with New.
func (h *HanaMcp) Close() error {
	if mgr, ok := h.conns.(*ConnManager); ok {
		return mgr.Close()
	}
	return nil
}

func (h *HanaMcp) introspectionTimeout() time.Duration {
	return time.Duration(h.config.Query.IntrospectionTimeoutSeconds) * time.Second
}
