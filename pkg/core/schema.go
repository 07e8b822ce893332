package core

import "context"

// Column represents a column in a database table.
type Column struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	Nullable   bool   `yaml:"nullable" json:"nullable"`
	PrimaryKey bool   `yaml:"primary_key" json:"primary_key"`
	Position   int    `yaml:"position" json:"position"`
}

// TableMetadata holds metadata about a database table.
type TableMetadata struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// HasColumn reports whether the table declares the named column.
func (t TableMetadata) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// Schema maps table names to their metadata.
type Schema map[string]TableMetadata

// HasColumns reports whether table exists and declares every listed column.
func (s Schema) HasColumns(table string, columns ...string) bool {
	meta, ok := s[table]
	if !ok {
		return false
	}
	for _, col := range columns {
		if !meta.HasColumn(col) {
			return false
		}
	}
	return true
}

// FindColumnTable returns the first table, in list order, that owns column.
func (s Schema) FindColumnTable(column string, tables []string) (string, bool) {
	for _, table := range tables {
		if s.HasColumns(table, column) {
			return table, true
		}
	}
	return "", false
}

// Catalog provides schema metadata for the predicate builder.
type Catalog interface {
	Schema(ctx context.Context) (Schema, error)
}
