package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockSession(t *testing.T) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewSession(db, time.Second, zap.NewNop()), mock
}

func TestSessionExecAndCommit(t *testing.T) {
	session, mock := newMockSession(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t (a) VALUES (1);").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO t (a) VALUES (2);").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t (a) VALUES (3);").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := session.Exec(ctx, "INSERT INTO t (a) VALUES (1);")
	require.NoError(t, err)
	assert.True(t, session.Pending())
	_, err = session.Exec(ctx, "INSERT INTO t (a) VALUES (2);")
	require.NoError(t, err)
	require.NoError(t, session.Commit(ctx))
	assert.False(t, session.Pending())

	_, err = session.Exec(ctx, "INSERT INTO t (a) VALUES (3);")
	require.NoError(t, err)
	require.NoError(t, session.Commit(ctx))

	assert.Equal(t, int64(2), session.Commits())
	assert.Equal(t, int64(3), session.Statements())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCommitWithoutPendingWork(t *testing.T) {
	session, mock := newMockSession(t)

	require.NoError(t, session.Commit(context.Background()))
	require.NoError(t, session.Commit(context.Background()))

	assert.Equal(t, int64(0), session.Commits())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionExecArgs(t *testing.T) {
	session, mock := newMockSession(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t (a, b) VALUES ($1, $2);").
		WithArgs("O'Brien", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := session.Exec(ctx, "INSERT INTO t (a, b) VALUES ($1, $2);", "O'Brien", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionExecError(t *testing.T) {
	session, mock := newMockSession(t)
	boom := errors.New("relation does not exist")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO missing VALUES (1);").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := session.Exec(context.Background(), "INSERT INTO missing VALUES (1);")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), session.Statements())

	require.NoError(t, session.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionBeginError(t *testing.T) {
	session, mock := newMockSession(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := session.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, session.Pending())
}

func TestSessionCommitCancelled(t *testing.T) {
	session, _ := newMockSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, session.Commit(ctx), context.Canceled)
}

func TestSessionCloseIdle(t *testing.T) {
	session, mock := newMockSession(t)
	assert.NoError(t, session.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
