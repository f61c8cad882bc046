package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Session is the single write session of a load.
//
// Statements run inside a transaction that is opened lazily by the first
// Exec after a commit. Commit with nothing pending does not reach the server.
type Session struct {
	db               *sqlx.DB
	tx               *sqlx.Tx
	logger           *zap.Logger
	statementTimeout time.Duration

	statements int64
	commits    int64
}

// NewSession creates a session on db. A zero statementTimeout disables the
// per-statement deadline.
func NewSession(db *sqlx.DB, statementTimeout time.Duration, logger *zap.Logger) *Session {
	return &Session{
		db:               db,
		logger:           logger,
		statementTimeout: statementTimeout,
	}
}

// Exec runs one statement in the pending transaction
func (s *Session) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if s.tx == nil {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		s.tx = tx
	}

	execCtx := ctx
	if s.statementTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, s.statementTimeout)
		defer cancel()
	}

	result, err := s.tx.ExecContext(execCtx, query, args...)
	if err != nil {
		return nil, err
	}
	s.statements++
	return result, nil
}

// Commit commits the pending transaction, if any
func (s *Session) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Pending() {
		return nil
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.commits++
	return nil
}

// Pending reports whether uncommitted statements exist
func (s *Session) Pending() bool {
	return s.tx != nil
}

// Commits returns the number of transactions committed on the server
func (s *Session) Commits() int64 {
	return s.commits
}

// Statements returns the number of statements executed successfully
func (s *Session) Statements() int64 {
	return s.statements
}

// DB returns the handle used for reads outside the write transaction
func (s *Session) DB() *sqlx.DB {
	return s.db
}

// Close rolls back any uncommitted work
func (s *Session) Close() error {
	if !s.Pending() {
		return nil
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		s.logger.Warn("Failed to roll back pending transaction", zap.Error(err))
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	s.logger.Info("Rolled back uncommitted statements")
	return nil
}
