package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/sqlgate/internal/catalog"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/gateway"
)

// KeyTables are the tenant tables covered by a diagnostics report.
var KeyTables = []string{"mst_employee", "mst_ledger", "trn_voucher", "mst_stock_item"}

// maxTenantPairs bounds the tenant combinations listed when a tenant has
// no employees.
const maxTenantPairs = 5

// TableReport summarizes one table for one tenant.
type TableReport struct {
	Table  string    `json:"table"`
	Total  int64     `json:"total"`
	Tenant int64     `json:"tenant"`
	Sample *core.Row `json:"sample,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Report is the outcome of a diagnostics run.
type Report struct {
	Tables  []string      `json:"tables"`
	Entries []TableReport `json:"entries"`
	// Tenants lists existing user_id/company_name pairs, filled only when
	// the requested tenant has no employees.
	Tenants []core.UserFilters `json:"tenants,omitempty"`
}

// Diagnostics inspects how much data a tenant can see. All statements go
// through the gateway.
type Diagnostics struct {
	db     *sql.DB
	gw     *gateway.Gateway
	tables []string
}

// NewDiagnostics creates a Diagnostics over db. With no tables given it
// covers KeyTables.
func NewDiagnostics(db *sql.DB, gw *gateway.Gateway, tables ...string) *Diagnostics {
	if len(tables) == 0 {
		tables = KeyTables
	}
	return &Diagnostics{db: db, gw: gw, tables: tables}
}

// Run builds the report. Failures on individual tables are recorded in
// their entry and do not stop the run.
func (d *Diagnostics) Run(ctx context.Context, tenant core.UserFilters) (Report, error) {
	if d.db == nil {
		return Report{}, gateway.ErrNoConnection
	}
	if !tenant.Complete() {
		return Report{}, fmt.Errorf("diagnostics require both user_id and company_name")
	}

	tables, err := catalog.NewSQLite(d.db, nil).Tables(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Tables: tables}

	for _, table := range d.tables {
		report.Entries = append(report.Entries, d.table(ctx, table, tenant))
	}

	if len(report.Entries) > 0 && report.Entries[0].Table == KeyTables[0] &&
		report.Entries[0].Error == "" && report.Entries[0].Tenant == 0 {
		report.Tenants = d.tenants(ctx)
	}
	return report, nil
}

func (d *Diagnostics) table(ctx context.Context, table string, tenant core.UserFilters) TableReport {
	entry := TableReport{Table: table}

	total, err := d.count(ctx, "SELECT COUNT(*) AS n FROM "+table)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Total = total

	scoped := " FROM " + table + " WHERE user_id = ? AND company_name = ?"
	n, err := d.count(ctx, "SELECT COUNT(*) AS n"+scoped, tenant.UserID, tenant.CompanyName)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Tenant = n

	if n > 0 {
		res := d.gw.Execute(ctx, "SELECT *"+scoped+" LIMIT 1", d.db, tenant.UserID, tenant.CompanyName)
		if !res.Success {
			entry.Error = res.Error
			return entry
		}
		if len(res.Data) > 0 {
			entry.Sample = &res.Data[0]
		}
	}
	return entry
}

func (d *Diagnostics) count(ctx context.Context, query string, args ...any) (int64, error) {
	res := d.gw.Execute(ctx, query, d.db, args...)
	if !res.Success {
		return 0, res.Err
	}
	if len(res.Data) == 0 {
		return 0, nil
	}
	v, _ := res.Data[0].Get("n")
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
	return n, nil
}

func (d *Diagnostics) tenants(ctx context.Context) []core.UserFilters {
	res := d.gw.Execute(ctx,
		fmt.Sprintf("SELECT DISTINCT user_id, company_name FROM %s LIMIT %d", KeyTables[0], maxTenantPairs), d.db)
	if !res.Success {
		return nil
	}
	pairs := make([]core.UserFilters, 0, len(res.Data))
	for _, row := range res.Data {
		u, _ := row.Get(core.ColumnUserID)
		c, _ := row.Get(core.ColumnCompanyName)
		pairs = append(pairs, core.UserFilters{UserID: u, CompanyName: c})
	}
	return pairs
}
