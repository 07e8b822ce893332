package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/sqlgate/pkg/core"
)

// Event describes one Execute call.
type Event struct {
	RequestID    string
	SQL          string
	ParamCount   int
	Read         bool
	Success      bool
	Kind         core.ErrorKind
	RowsAffected int64
	Duration     time.Duration
	Err          error
}

// Sink receives an Event after every Execute call.
type Sink interface {
	Observe(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Observe calls f.
func (f SinkFunc) Observe(e Event) { f(e) }

// LogSink writes events to a slog logger: debug for successes, warn for
// failures. Parameter values are never logged, only their count.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger discards everything.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogSink{logger: logger}
}

// Observe implements Sink.
func (s *LogSink) Observe(e Event) {
	attrs := []slog.Attr{
		slog.String("request_id", e.RequestID),
		slog.String("sql", e.SQL),
		slog.Int("params", e.ParamCount),
		slog.Int64("rows", e.RowsAffected),
		slog.Duration("duration", e.Duration),
	}
	if e.Success {
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "statement executed", attrs...)
		return
	}
	attrs = append(attrs,
		slog.String("kind", string(e.Kind)),
		slog.Any("error", e.Err))
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "statement failed", attrs...)
}
