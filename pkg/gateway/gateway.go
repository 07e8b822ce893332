// Package gateway executes gated SQL against a caller-owned connection and
// normalizes the outcome into a core.ExecutionResult.
//
// Execute never returns an error or panics past its boundary: rejected
// statements, missing connections, store failures and driver panics all
// come back as a result with Success false.
package gateway

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlgate/pkg/core"
	"github.com/leapstack-labs/sqlgate/pkg/guard"
)

// Conn is the borrowed connection. *sql.DB, *sql.Conn satisfy it. The
// gateway never closes it.
type Conn interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// ValidateFunc gates statement text.
type ValidateFunc func(sql string) core.ValidationResult

// Gateway runs one statement per call inside its own transaction.
type Gateway struct {
	validate ValidateFunc
	sink     Sink
	logger   *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithValidator replaces the default gate.
func WithValidator(fn ValidateFunc) Option {
	return func(g *Gateway) {
		g.validate = fn
	}
}

// WithSink sets the diagnostic sink.
func WithSink(s Sink) Option {
	return func(g *Gateway) {
		g.sink = s
	}
}

// WithLogger sets the logger. Unless a sink is also given, events are
// logged through it.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a Gateway using guard.Validate.
func New(opts ...Option) *Gateway {
	g := &Gateway{validate: guard.Validate}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.sink == nil {
		g.sink = NewLogSink(g.logger)
	}
	return g
}

// IsSelect reports whether the statement is read through a cursor.
func IsSelect(sqlText string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sqlText)), "SELECT")
}

// Execute validates sqlText and runs it on conn with params bound in
// order. A single []any argument is spread into individual parameters.
func (g *Gateway) Execute(ctx context.Context, sqlText string, conn Conn, params ...any) (res core.ExecutionResult) {
	start := time.Now()
	args := flatten(params)
	defer func() {
		g.sink.Observe(Event{
			RequestID:    uuid.NewString(),
			SQL:          sqlText,
			ParamCount:   len(args),
			Read:         IsSelect(sqlText),
			Success:      res.Success,
			Kind:         res.Kind,
			RowsAffected: res.RowsAffected,
			Duration:     time.Since(start),
			Err:          res.Err,
		})
	}()

	if v := g.validate(sqlText); !v.Safe {
		return core.Failure(core.ErrorKindValidation, &ValidationError{Reason: v.Reason})
	}
	if isNilConn(conn) {
		return core.Failure(core.ErrorKindNoConnection, ErrNoConnection)
	}
	return g.run(ctx, sqlText, conn, args)
}

func (g *Gateway) run(ctx context.Context, sqlText string, conn Conn, args []any) (res core.ExecutionResult) {
	var tx *sql.Tx
	defer func() {
		if r := recover(); r != nil {
			g.rollback(tx)
			res = core.Failure(core.ErrorKindUnexpected, &UnexpectedError{Value: r})
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return core.Failure(core.ErrorKindExecution, &ExecutionError{Err: err})
	}

	if IsSelect(sqlText) {
		res, err = query(ctx, tx, sqlText, args)
	} else {
		res, err = exec(ctx, tx, sqlText, args)
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		g.rollback(tx)
		return core.Failure(core.ErrorKindExecution, &ExecutionError{Err: err})
	}
	return res
}

// rollback is best effort. Its error is logged and dropped.
func (g *Gateway) rollback(tx *sql.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		g.logger.Debug("rollback failed", slog.Any("error", err))
	}
}

func query(ctx context.Context, tx *sql.Tx, sqlText string, args []any) (core.ExecutionResult, error) {
	rows, err := tx.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return core.ExecutionResult{}, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return core.ExecutionResult{}, err
	}

	data := make([]core.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return core.ExecutionResult{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, core.Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return core.ExecutionResult{}, err
	}

	return core.ExecutionResult{
		Success:      true,
		Data:         data,
		Columns:      cols,
		RowsAffected: int64(len(data)),
	}, nil
}

func exec(ctx context.Context, tx *sql.Tx, sqlText string, args []any) (core.ExecutionResult, error) {
	result, err := tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return core.ExecutionResult{}, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		// Driver does not report a count.
		n = -1
	}
	return core.ExecutionResult{Success: true, RowsAffected: n}, nil
}

func flatten(params []any) []any {
	if len(params) == 1 {
		if list, ok := params[0].([]any); ok {
			return list
		}
	}
	return params
}

func isNilConn(conn Conn) bool {
	switch c := conn.(type) {
	case nil:
		return true
	case *sql.DB:
		return c == nil
	case *sql.Conn:
		return c == nil
	}
	return false
}
