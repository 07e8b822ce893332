package gateway

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/sqlgate/internal/testutil"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectTenant = "SELECT id, name FROM mst_employee WHERE user_id = ? AND company_name = ?"
	updateTenant = "UPDATE mst_employee SET status = ? WHERE user_id = ? AND company_name = ?"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestGateway_Execute(t *testing.T) {
	storeErr := errors.New("UNIQUE constraint failed: mst_employee.id")

	tests := []struct {
		name      string
		sql       string
		params    []any
		setupMock func(mock sqlmock.Sqlmock)
		verify    func(t *testing.T, res core.ExecutionResult)
	}{
		{
			name:   "select returns ordered rows",
			sql:    selectTenant,
			params: []any{"u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectTenant).WithArgs("u1", "c1").WillReturnRows(
					sqlmock.NewRows([]string{"id", "name"}).
						AddRow(int64(1), "alice").
						AddRow(int64(2), []byte("bob")))
				mock.ExpectCommit()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				require.True(t, res.Success)
				assert.Equal(t, int64(2), res.RowsAffected)
				assert.Equal(t, []string{"id", "name"}, res.Columns)
				require.Len(t, res.Data, 2)
				assert.Equal(t, []any{int64(1), "alice"}, res.Data[0].Values)
				name, ok := res.Data[1].Get("name")
				assert.True(t, ok)
				assert.Equal(t, "bob", name)
			},
		},
		{
			name:   "select with no rows",
			sql:    selectTenant,
			params: []any{"u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectTenant).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
				mock.ExpectCommit()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				require.True(t, res.Success)
				assert.NotNil(t, res.Data)
				assert.Empty(t, res.Data)
				assert.Equal(t, int64(0), res.RowsAffected)
			},
		},
		{
			name:   "lower case select with leading whitespace is a read",
			sql:    "  select 1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("  select 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))
				mock.ExpectCommit()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				require.True(t, res.Success)
				assert.Len(t, res.Data, 1)
			},
		},
		{
			name:   "mutation commits and reports affected rows",
			sql:    updateTenant,
			params: []any{"inactive", "u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(updateTenant).WithArgs("inactive", "u1", "c1").
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectCommit()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				require.True(t, res.Success)
				assert.Nil(t, res.Data)
				assert.Equal(t, int64(3), res.RowsAffected)
				assert.Empty(t, res.Error)
			},
		},
		{
			name:   "mutation without row count",
			sql:    updateTenant,
			params: []any{"inactive", "u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(updateTenant).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("not supported")))
				mock.ExpectCommit()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				require.True(t, res.Success)
				assert.Equal(t, int64(-1), res.RowsAffected)
			},
		},
		{
			name:   "store error rolls back",
			sql:    updateTenant,
			params: []any{"inactive", "u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(updateTenant).WillReturnError(storeErr)
				mock.ExpectRollback()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Nil(t, res.Data)
				assert.Equal(t, core.ErrorKindExecution, res.Kind)
				assert.Equal(t, "Database error: "+storeErr.Error(), res.Error)
				assert.ErrorIs(t, res.Err, storeErr)
			},
		},
		{
			name:   "rollback failure is swallowed",
			sql:    updateTenant,
			params: []any{"inactive", "u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(updateTenant).WillReturnError(storeErr)
				mock.ExpectRollback().WillReturnError(errors.New("connection lost"))
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.ErrorIs(t, res.Err, storeErr)
			},
		},
		{
			name:   "query error rolls back",
			sql:    selectTenant,
			params: []any{"u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectTenant).WillReturnError(errors.New("no such table: mst_employee"))
				mock.ExpectRollback()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Nil(t, res.Data)
				assert.Equal(t, "Database error: no such table: mst_employee", res.Error)
			},
		},
		{
			name:   "row iteration error rolls back",
			sql:    selectTenant,
			params: []any{"u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectTenant).WillReturnRows(
					sqlmock.NewRows([]string{"id", "name"}).
						AddRow(int64(1), "alice").
						AddRow(int64(2), "bob").
						RowError(1, errors.New("disk I/O error")))
				mock.ExpectRollback()
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Nil(t, res.Data)
				assert.Contains(t, res.Error, "disk I/O error")
			},
		},
		{
			name:   "begin failure",
			sql:    selectTenant,
			params: []any{"u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("database is locked"))
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Equal(t, core.ErrorKindExecution, res.Kind)
				assert.Equal(t, "Database error: database is locked", res.Error)
			},
		},
		{
			name:   "commit failure",
			sql:    updateTenant,
			params: []any{"inactive", "u1", "c1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(updateTenant).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errors.New("database is locked"))
			},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Equal(t, "Database error: database is locked", res.Error)
			},
		},
		{
			name:      "unsafe statement never touches the store",
			sql:       "DROP TABLE mst_employee",
			setupMock: func(sqlmock.Sqlmock) {},
			verify: func(t *testing.T, res core.ExecutionResult) {
				assert.False(t, res.Success)
				assert.Nil(t, res.Data)
				assert.Equal(t, core.ErrorKindValidation, res.Kind)
				assert.Equal(t, guard.ReasonKeywordPrefix+"DROP", res.Error)
				assert.ErrorIs(t, res.Err, ErrUnsafeStatement)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.setupMock(mock)

			g := New(WithLogger(testutil.NewTestLogger(t)))
			res := g.Execute(context.Background(), tt.sql, db, tt.params...)

			tt.verify(t, res)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGateway_NoConnection(t *testing.T) {
	g := New()

	var nilDB *sql.DB
	for _, conn := range []Conn{nil, nilDB} {
		res := g.Execute(context.Background(), selectTenant, conn, "u1", "c1")
		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, core.ErrorKindNoConnection, res.Kind)
		assert.Equal(t, "No database connection available", res.Error)
		assert.ErrorIs(t, res.Err, ErrNoConnection)
	}
}

func TestGateway_ValidationBeforeConnection(t *testing.T) {
	res := New().Execute(context.Background(), "SELECT 1; SELECT 2", nil)
	assert.Equal(t, core.ErrorKindValidation, res.Kind)
	assert.Equal(t, guard.ReasonMultipleStatement, res.Error)
}

func TestGateway_ParameterForms(t *testing.T) {
	tests := []struct {
		name   string
		params []any
	}{
		{name: "variadic", params: []any{"u1", "c1"}},
		{name: "single slice", params: []any{[]any{"u1", "c1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery(selectTenant).WithArgs("u1", "c1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
			mock.ExpectCommit()

			res := New().Execute(context.Background(), selectTenant, db, tt.params...)
			assert.True(t, res.Success)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGateway_ScalarParameter(t *testing.T) {
	const q = "SELECT id FROM mst_employee WHERE user_id = ?"
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	res := New().Execute(context.Background(), q, db, "u1")
	assert.True(t, res.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type panicConn struct{}

func (panicConn) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	panic("driver exploded")
}

func TestGateway_RecoversPanics(t *testing.T) {
	res := New().Execute(context.Background(), selectTenant, panicConn{}, "u1", "c1")
	assert.False(t, res.Success)
	assert.Equal(t, core.ErrorKindUnexpected, res.Kind)
	assert.Equal(t, "Unexpected error: driver exploded", res.Error)
}

func TestGateway_CustomValidator(t *testing.T) {
	strict := guard.NewValidator(guard.WithExtraKeywords("PRAGMA"))
	g := New(WithValidator(strict.Validate))

	res := g.Execute(context.Background(), "PRAGMA table_info(mst_employee)", nil)
	assert.Equal(t, core.ErrorKindValidation, res.Kind)
	assert.Equal(t, guard.ReasonKeywordPrefix+"PRAGMA", res.Error)
}

func TestGateway_SinkObservesEveryCall(t *testing.T) {
	var events []Event
	g := New(WithSink(SinkFunc(func(e Event) { events = append(events, e) })))

	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(updateTenant).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	g.Execute(context.Background(), updateTenant, db, "inactive", "u1", "c1")
	g.Execute(context.Background(), "TRUNCATE mst_employee", db)

	require.Len(t, events, 2)

	assert.True(t, events[0].Success)
	assert.False(t, events[0].Read)
	assert.Equal(t, 3, events[0].ParamCount)
	assert.Equal(t, int64(2), events[0].RowsAffected)
	assert.NotEmpty(t, events[0].RequestID)

	assert.False(t, events[1].Success)
	assert.Equal(t, core.ErrorKindValidation, events[1].Kind)
	assert.ErrorIs(t, events[1].Err, ErrUnsafeStatement)
	assert.NotEqual(t, events[0].RequestID, events[1].RequestID)
}

func TestIsSelect(t *testing.T) {
	assert.True(t, IsSelect("SELECT 1"))
	assert.True(t, IsSelect("\n  select * from t"))
	assert.False(t, IsSelect("INSERT INTO t SELECT 1"))
	assert.False(t, IsSelect("WITH x AS (SELECT 1) SELECT * FROM x"))
}
