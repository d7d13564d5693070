package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. Tests may replace it.
var Logger = zap.NewNop()

// InitLogger installs a production JSON logger tagged with the service name.
func InitLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}

	Logger = logger.With(zap.String("service", ServiceName()))
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger carrying trace_id and span_id of
// the active span in ctx.
//
// ctx itself is attached as a "context" field: the otelzap core uses any
// context.Context field as the emit context, which fills the native
// TraceID/SpanID of exported OTLP log records. The string fields keep
// stdout logs greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
