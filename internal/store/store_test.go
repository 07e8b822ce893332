package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlgate/internal/catalog"
	"github.com/leapstack-labs/sqlgate/internal/testutil"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sqlgate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec("CREATE TABLE t (a INTEGER)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO t VALUES (1)")
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)

	version, err := MigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, Migrate(db))

	schema, err := catalog.NewSQLite(db, nil).Schema(context.Background())
	require.NoError(t, err)
	for _, table := range KeyTables {
		assert.True(t, schema.HasColumns(table, core.ColumnUserID, core.ColumnCompanyName), table)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	assert.Error(t, Migrate(nil))
	_, err := MigrationVersion(nil)
	assert.Error(t, err)
}

func seedEmployees(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, row := range [][]any{
		{"Asha", "Accountant", "u1", "acme"},
		{"Ravi", "Clerk", "u1", "acme"},
		{"Meera", "Manager", "u2", "globex"},
	} {
		_, err := db.Exec(`INSERT INTO mst_employee (name, designation, user_id, company_name) VALUES (?, ?, ?, ?)`, row...)
		require.NoError(t, err)
	}
	_, err := db.Exec(`INSERT INTO mst_ledger (name, user_id, company_name) VALUES ('Cash', 'u2', 'globex')`)
	require.NoError(t, err)
}

func TestDiagnostics_Run(t *testing.T) {
	db := setupTestDB(t)
	seedEmployees(t, db)
	gw := gateway.New(gateway.WithLogger(testutil.NewTestLogger(t)))

	report, err := NewDiagnostics(db, gw).Run(context.Background(), core.UserFilters{UserID: "u1", CompanyName: "acme"})
	require.NoError(t, err)

	assert.Contains(t, report.Tables, "mst_employee")
	require.Len(t, report.Entries, len(KeyTables))

	emp := report.Entries[0]
	assert.Equal(t, "mst_employee", emp.Table)
	assert.Equal(t, int64(3), emp.Total)
	assert.Equal(t, int64(2), emp.Tenant)
	require.NotNil(t, emp.Sample)
	company, _ := emp.Sample.Get(core.ColumnCompanyName)
	assert.Equal(t, "acme", company)

	ledger := report.Entries[1]
	assert.Equal(t, int64(1), ledger.Total)
	assert.Equal(t, int64(0), ledger.Tenant)
	assert.Nil(t, ledger.Sample)

	assert.Empty(t, report.Tenants)
}

func TestDiagnostics_UnknownTenantListsExisting(t *testing.T) {
	db := setupTestDB(t)
	seedEmployees(t, db)

	report, err := NewDiagnostics(db, gateway.New()).Run(context.Background(), core.UserFilters{UserID: "nobody", CompanyName: "none"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.Entries[0].Tenant)
	assert.ElementsMatch(t, []core.UserFilters{
		{UserID: "u1", CompanyName: "acme"},
		{UserID: "u2", CompanyName: "globex"},
	}, report.Tenants)
}

func TestDiagnostics_TableErrorsDoNotAbort(t *testing.T) {
	db := setupTestDB(t)

	report, err := NewDiagnostics(db, gateway.New(), "missing_table", "mst_ledger").
		Run(context.Background(), core.UserFilters{UserID: "u1", CompanyName: "acme"})
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Contains(t, report.Entries[0].Error, "no such table")
	assert.Empty(t, report.Entries[1].Error)
}

func TestDiagnostics_Errors(t *testing.T) {
	_, err := NewDiagnostics(nil, gateway.New()).Run(context.Background(), core.UserFilters{UserID: "u", CompanyName: "c"})
	assert.ErrorIs(t, err, gateway.ErrNoConnection)

	db := setupTestDB(t)
	_, err = NewDiagnostics(db, gateway.New()).Run(context.Background(), core.UserFilters{UserID: "u"})
	assert.Error(t, err)
}
