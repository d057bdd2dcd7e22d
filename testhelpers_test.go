package hanamcp

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
)

// sessionCounter wraps a sessionSource and counts acquires and releases,
// so tests can assert that every acquired session is released exactly
// once on every exit path.
type sessionCounter struct {
	source   sessionSource
	acquired atomic.Int64
	released atomic.Int64
}

func (c *sessionCounter) Acquire(ctx context.Context) (Session, error) {
	sess, err := c.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	c.acquired.Add(1)
	return &countedSession{Session: sess, counter: c}, nil
}

func (c *sessionCounter) leaked() int64 {
	return c.acquired.Load() - c.released.Load()
}

type countedSession struct {
	Session
	counter *sessionCounter
}

func (s *countedSession) Close() error {
	s.counter.released.Add(1)
	return s.Session.Close()
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

// newMockEngine returns an engine backed by a sqlmock database with exact
// SQL matching, plus a counter observing every acquire/release pair.
func newMockEngine(t *testing.T, config Config) (*HanaMcp, sqlmock.Sqlmock, *sessionCounter) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewWithDB(db, config, testLogger())
	counter := &sessionCounter{source: h.conns}
	h.conns = counter
	return h, mock, counter
}

// verifyMock fails the test when sqlmock expectations were not met or a
// session leaked.
func verifyMock(t *testing.T, mock sqlmock.Sqlmock, counter *sessionCounter) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
	if leaked := counter.leaked(); leaked != 0 {
		t.Fatalf("session leak: %d acquired sessions were not released", leaked)
	}
}
