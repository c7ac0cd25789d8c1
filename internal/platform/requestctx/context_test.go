package requestctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestLoggerDefaultsToNoop(t *testing.T) {
	if Logger(context.Background()) != NoopLogger() {
		t.Fatal("expected noop logger for empty context")
	}
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if Logger(ctx) != logger {
		t.Fatal("expected stored logger")
	}
}

func TestTraceRoundTrip(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Fatal("expected empty trace id")
	}
	ctx := WithTrace(context.Background(), TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true})
	info, ok := Trace(ctx)
	if !ok || info.SpanID != "def" || !info.Sampled {
		t.Fatalf("unexpected trace info %+v", info)
	}
	if TraceID(ctx) != "abc" {
		t.Fatalf("unexpected trace id %s", TraceID(ctx))
	}
}

func TestAnnotations(t *testing.T) {
	Annotate(context.Background(), "ignored", "value")

	ctx, annotations := WithAnnotations(context.Background())
	Annotate(ctx, "analysis_id", "anl_123")
	Annotate(ctx, "report", "true")

	fields := annotations.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "analysis_id" || fields[0].String != "anl_123" {
		t.Fatalf("unexpected first field %+v", fields[0])
	}

	fields[0].Key = "mutated"
	if annotations.Fields()[0].Key != "analysis_id" {
		t.Fatal("expected Fields to return a copy")
	}

	var nilSet *Annotations
	if nilSet.Fields() != nil {
		t.Fatal("expected nil fields for nil set")
	}
}
