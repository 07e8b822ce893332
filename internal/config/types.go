// Package config loads sqlgate configuration from defaults, a YAML file,
// SQLGATE_ environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlgate/pkg/core"
)

// Schema modes.
const (
	SchemaModeAuto        = "auto"
	SchemaModeAware       = "aware"
	SchemaModeUnavailable = "unavailable"
)

var (
	outputFormats = []string{"table", "json", "csv", "md"}
	schemaModes   = []string{SchemaModeAuto, SchemaModeAware, SchemaModeUnavailable}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Config holds all sqlgate settings.
type Config struct {
	Database      string   `koanf:"database"`
	UserID        string   `koanf:"user_id"`
	CompanyName   string   `koanf:"company_name"`
	SchemaMode    string   `koanf:"schema_mode"`
	SchemaFile    string   `koanf:"schema_file"`
	ExtraKeywords []string `koanf:"extra_keywords"`
	Output        string   `koanf:"output"`
	LogLevel      string   `koanf:"log_level"`
	Verbose       bool     `koanf:"verbose"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Tenant returns the configured tenant. Unset values stay nil so the
// builder can reject an incomplete tenant.
func (c *Config) Tenant() core.UserFilters {
	var f core.UserFilters
	if c.UserID != "" {
		f.UserID = c.UserID
	}
	if c.CompanyName != "" {
		f.CompanyName = c.CompanyName
	}
	return f
}

// Level returns the slog level, forced to debug when verbose.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects unknown enumerated values.
func (c *Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(schemaModes, c.SchemaMode) {
		return fmt.Errorf("invalid schema mode %q (expected one of %s)", c.SchemaMode, strings.Join(schemaModes, ", "))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q (expected one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.SchemaMode == SchemaModeAware && c.SchemaFile == "" && c.Database == "" {
		return fmt.Errorf("schema mode %q needs a schema file or a database", c.SchemaMode)
	}
	return nil
}
