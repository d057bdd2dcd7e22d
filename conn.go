package hanamcp

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	// Registers the "hdb" database/sql driver.
	_ "github.com/SAP/go-hdb/driver"
	"github.com/rs/zerolog"
)

// Session is a dedicated database session owned by exactly one invocation.
// Close releases the session and must be called exactly once per Acquire,
// on every exit path. *sql.Conn satisfies Session.
type Session interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

// sessionSource yields live sessions. Satisfied by *ConnManager; tests
// substitute a counting source over a mock driver.
type sessionSource interface {
	Acquire(ctx context.Context) (Session, error)
}

// ConnManager owns the database handle and hands out one dedicated session
// per invocation. Acquire fails fast on network/auth errors — no retry or
// backoff. Sessions are independent, so invocations may run concurrently
// up to the configured session cap.
type ConnManager struct {
	db     *sql.DB
	owned  bool // whether Close should close db
	logger zerolog.Logger
}

// NewConnManager opens the database handle for the given connection
// parameters. The handle is lazy; use Ping to verify connectivity.
func NewConnManager(conn ConnectionConfig, maxSessions int, logger zerolog.Logger) (*ConnManager, error) {
	db, err := sql.Open("hdb", conn.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}
	db.SetMaxOpenConns(maxSessions)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &ConnManager{db: db, owned: true, logger: logger}, nil
}

// newConnManagerFromDB wraps an already-open handle (mock driver in tests,
// or a caller-managed handle via NewWithDB).
func newConnManagerFromDB(db *sql.DB, logger zerolog.Logger) *ConnManager {
	return &ConnManager{db: db, logger: logger}
}

// Acquire returns a dedicated session. The caller owns it exclusively and
// must Close it exactly once.
func (m *ConnManager) Acquire(ctx context.Context) (Session, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	return conn, nil
}

// Ping verifies database connectivity.
func (m *ConnManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Close closes the database handle and all idle sessions. Handles passed
// in by the caller (NewWithDB) stay open.
func (m *ConnManager) Close() error {
	if !m.owned {
		return nil
	}
	return m.db.Close()
}

// DSN builds the go-hdb connection string. Encryption is always enabled
// and certificate validation is always disabled: this is the fixed trust
// model of the gateway, not a per-deployment knob. The returned string
// contains the password and must never be logged.
func (c ConnectionConfig) DSN() string {
	q := url.Values{}
	q.Set("TLSServerName", c.Host)
	q.Set("TLSInsecureSkipVerify", "true")
	if c.Schema != "" {
		q.Set("defaultSchema", c.Schema)
	}
	u := url.URL{
		Scheme:   "hdb",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
		RawQuery: q.Encode(),
	}
	return u.String()
}
