// Package commands implements the sqlgate subcommands.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlgate/internal/catalog"
	"github.com/leapstack-labs/sqlgate/internal/config"
	"github.com/leapstack-labs/sqlgate/internal/store"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/gateway"
	"github.com/leapstack-labs/sqlgate/pkg/guard"
	"github.com/leapstack-labs/sqlgate/pkg/predicate"
	"github.com/spf13/cobra"
)

type envKey struct{}

type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewContext stores the loaded config and logger for subcommands.
func NewContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, envKey{}, env{cfg: cfg, logger: logger})
}

// CommandContext holds dependencies shared by commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext reads the config and logger stored by the root command.
// Without them it falls back to defaults and a discard logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	e, ok := cmd.Context().Value(envKey{}).(env)
	if !ok || e.cfg == nil {
		e.cfg = &config.Config{
			Database:   config.DefaultDatabase,
			SchemaMode: config.DefaultSchemaMode,
			Output:     config.DefaultOutput,
			LogLevel:   config.DefaultLogLevel,
		}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return &CommandContext{Cfg: e.cfg, Logger: e.logger}
}

// OpenDB opens the configured database. The caller closes it.
func (c *CommandContext) OpenDB() (*sql.DB, error) {
	db, err := store.Open(c.Cfg.Database)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened database", slog.String("path", c.Cfg.Database))
	return db, nil
}

// Validator returns the gate with any configured extra keywords.
func (c *CommandContext) Validator() *guard.Validator {
	return guard.NewValidator(guard.WithExtraKeywords(c.Cfg.ExtraKeywords...))
}

// Gateway returns a gateway logging through the command logger.
func (c *CommandContext) Gateway() *gateway.Gateway {
	return gateway.New(
		gateway.WithValidator(c.Validator().Validate),
		gateway.WithLogger(c.Logger),
	)
}

// Schema resolves schema metadata per the configured mode. A nil schema
// means the builder runs without it.
func (c *CommandContext) Schema(ctx context.Context, db *sql.DB) (core.Schema, error) {
	if c.Cfg.SchemaMode == config.SchemaModeUnavailable {
		return nil, nil
	}

	var cat core.Catalog
	if c.Cfg.SchemaFile != "" {
		static, err := catalog.LoadFile(c.Cfg.SchemaFile)
		if err != nil {
			return nil, err
		}
		cat = static
	} else {
		cat = catalog.NewSQLite(db, c.Logger)
	}

	schema, err := cat.Schema(ctx)
	if err == nil && len(schema) == 0 {
		err = fmt.Errorf("schema is empty")
	}
	if err != nil {
		if c.Cfg.SchemaMode == config.SchemaModeAware {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		c.Logger.Debug("schema unavailable, filtering first table only", slog.Any("error", err))
		return nil, nil
	}
	return schema, nil
}

// Builder returns a predicate builder for schema.
func (c *CommandContext) Builder(schema core.Schema) *predicate.Builder {
	opts := []predicate.Option{predicate.WithLogger(c.Logger)}
	if len(schema) > 0 {
		opts = append(opts, predicate.WithSchema(schema))
	}
	return predicate.NewBuilder(opts...)
}
