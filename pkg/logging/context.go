package logging

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// contextKey is a private type so logging keys cannot collide with
// other packages' context values.
type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger binds a logger to the context. A nil logger binds the
// default logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger bound to the context, or the default
// logger when none is bound.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithRunID stores the reconciliation run ID in the context and stamps
// the bound logger with a run_id field, so every event downstream of a
// run can be correlated.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return WithField(ctx, "run_id", runID)
}

// RunID returns the reconciliation run ID stored in the context, or
// the empty string.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithField binds a logger carrying one extra field to the context.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := field(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithFields binds a logger carrying the given fields to the context.
// Fields are applied in key order so event output is deterministic.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	logCtx := FromContext(ctx).With()
	for _, key := range keys {
		logCtx = field(logCtx, key, fields[key])
	}
	logger := logCtx.Logger()
	return WithLogger(ctx, &logger)
}

// WithSource stamps events with the source being worked on.
func WithSource(ctx context.Context, source string) context.Context {
	return WithField(ctx, "source", source)
}

// WithMetric stamps events with the metric being compared.
func WithMetric(ctx context.Context, metric string) context.Context {
	return WithField(ctx, "metric", metric)
}

// WithOperation stamps events with the pipeline operation in progress.
func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}

// field adds one typed field to a logger context.
func field(logCtx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return logCtx.Str(key, v)
	case int:
		return logCtx.Int(key, v)
	case int64:
		return logCtx.Int64(key, v)
	case float64:
		return logCtx.Float64(key, v)
	case bool:
		return logCtx.Bool(key, v)
	case time.Time:
		return logCtx.Time(key, v)
	case error:
		return logCtx.AnErr(key, v)
	default:
		return logCtx.Interface(key, v)
	}
}
