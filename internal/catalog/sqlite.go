package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlgate/pkg/core"
)

// SQLite introspects a live SQLite database.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite creates a SQLite catalog over db. The catalog does not own db.
func NewSQLite(db *sql.DB, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLite{db: db, logger: logger}
}

// Tables lists user tables in name order.
func (c *SQLite) Tables(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// Table returns the column metadata of one table.
func (c *SQLite) Table(ctx context.Context, table string) (core.TableMetadata, error) {
	if c.db == nil {
		return core.TableMetadata{}, fmt.Errorf("database connection not established")
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return core.TableMetadata{}, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var (
			col     core.Column
			notNull int
			pk      int
		)
		if err := rows.Scan(&col.Position, &col.Name, &col.Type, &notNull, &pk); err != nil {
			return core.TableMetadata{}, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position++
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return core.TableMetadata{}, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return core.TableMetadata{}, fmt.Errorf("table %s not found", table)
	}
	return core.TableMetadata{Name: table, Columns: columns}, nil
}

// Schema implements core.Catalog.
func (c *SQLite) Schema(ctx context.Context) (core.Schema, error) {
	tables, err := c.Tables(ctx)
	if err != nil {
		return nil, err
	}
	schema := make(core.Schema, len(tables))
	for _, table := range tables {
		meta, err := c.Table(ctx, table)
		if err != nil {
			return nil, err
		}
		schema[table] = meta
	}
	c.logger.Debug("introspected schema", slog.Int("tables", len(schema)))
	return schema, nil
}
