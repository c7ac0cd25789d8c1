package requestctx

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerContextKey      contextKey = "github.com/gmalickovski/vibraweb/internal/platform/requestctx/logger"
	traceContextKey       contextKey = "github.com/gmalickovski/vibraweb/internal/platform/requestctx/trace"
	annotationsContextKey contextKey = "github.com/gmalickovski/vibraweb/internal/platform/requestctx/annotations"
)

var noopLogger = zap.NewNop()

// TraceInfo captures trace metadata propagated through request context.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Logger retrieves the zap logger from context or returns a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared noop logger instance used across the package.
func NoopLogger() *zap.Logger { return noopLogger }

// WithTrace stores the trace metadata on the context for downstream usage.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceContextKey, info)
}

// Trace retrieves the trace metadata from context when available.
func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceContextKey).(TraceInfo)
	return info, ok
}

// TraceID extracts the trace identifier from context when present.
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}

// Annotations collects fields that handlers learn while serving a request (such as the analysis ID)
// so the request logger can emit them on completion.
type Annotations struct {
	mu     sync.Mutex
	fields []zap.Field
}

// WithAnnotations attaches an empty annotation set to the context and returns both.
func WithAnnotations(ctx context.Context) (context.Context, *Annotations) {
	if ctx == nil {
		ctx = context.Background()
	}
	annotations := &Annotations{}
	return context.WithValue(ctx, annotationsContextKey, annotations), annotations
}

// Annotate records a string field on the request's annotation set. It is a no-op outside a request.
func Annotate(ctx context.Context, key, value string) {
	if ctx == nil {
		return
	}
	annotations, ok := ctx.Value(annotationsContextKey).(*Annotations)
	if !ok || annotations == nil {
		return
	}
	annotations.mu.Lock()
	annotations.fields = append(annotations.fields, zap.String(key, value))
	annotations.mu.Unlock()
}

// Fields returns a copy of the recorded fields.
func (a *Annotations) Fields() []zap.Field {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]zap.Field, len(a.fields))
	copy(out, a.fields)
	return out
}
