package transfer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/connector"
	"github.com/David-Botos/csv-ingress/pkg/model"
)

// recordingExecutor records statements and commit calls. A commit with no
// statement since the previous one is counted as a call but not as a wire commit.
type recordingExecutor struct {
	statements  []string
	args        [][]interface{}
	commitCalls int
	wireCommits int
	pending     int
	// committed holds the number of statements durably applied
	committed int

	failOnStatement int // 1-based; 0 disables
	failErr         error
	commitErr       error
}

func (e *recordingExecutor) Exec(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	if e.failOnStatement > 0 && len(e.statements)+1 == e.failOnStatement {
		return nil, e.failErr
	}
	e.statements = append(e.statements, query)
	e.args = append(e.args, args)
	e.pending++
	return sqlmock.NewResult(0, 1), nil
}

func (e *recordingExecutor) Commit(context.Context) error {
	e.commitCalls++
	if e.commitErr != nil {
		return e.commitErr
	}
	if e.pending > 0 {
		e.wireCommits++
		e.committed += e.pending
		e.pending = 0
	}
	return nil
}

func intDataset(n int) *model.Dataset {
	ds := &model.Dataset{
		Columns: []model.Column{
			{Name: "id", SourceName: "id", Kind: model.KindInteger},
			{Name: "label", SourceName: "label", Kind: model.KindText},
		},
	}
	for i := 1; i <= n; i++ {
		ds.Rows = append(ds.Rows, model.Row{model.Int(int64(i)), model.Text(fmt.Sprintf("row-%d", i))})
	}
	return ds
}

type mockConnector struct {
	db     *sqlx.DB
	closed bool
}

func (m *mockConnector) Name() string { return "mock" }
func (m *mockConnector) DB() *sqlx.DB { return m.db }
func (m *mockConnector) Validate(ctx context.Context) error { return nil }
func (m *mockConnector) Session() *connector.Session {
	return connector.NewSession(m.db, 0, zap.NewNop())
}
func (m *mockConnector) Close() error {
	m.closed = true
	return nil
}
