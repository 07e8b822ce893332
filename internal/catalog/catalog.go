// Package catalog provides schema metadata sources for the predicate builder.
package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/sqlgate/pkg/core"
	"gopkg.in/yaml.v3"
)

// Static serves a fixed schema.
type Static struct {
	schema core.Schema
}

// NewStatic creates a Static catalog.
func NewStatic(schema core.Schema) *Static {
	return &Static{schema: schema}
}

// Schema implements core.Catalog.
func (s *Static) Schema(_ context.Context) (core.Schema, error) {
	return s.schema, nil
}

// schemaFile is the YAML layout of a catalog file:
//
//	tables:
//	  mst_employee:
//	    columns:
//	      - name: user_id
//	        type: TEXT
type schemaFile struct {
	Tables map[string]struct {
		Columns []core.Column `yaml:"columns"`
	} `yaml:"tables"`
}

// ParseYAML decodes a catalog document.
func ParseYAML(data []byte) (core.Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	schema := make(core.Schema, len(f.Tables))
	for name, t := range f.Tables {
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("table %s declares no columns", name)
		}
		cols := make([]core.Column, len(t.Columns))
		for i, col := range t.Columns {
			if col.Position == 0 {
				col.Position = i + 1
			}
			cols[i] = col
		}
		schema[name] = core.TableMetadata{Name: name, Columns: cols}
	}
	return schema, nil
}

// LoadFile reads a YAML catalog file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	schema, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewStatic(schema), nil
}
