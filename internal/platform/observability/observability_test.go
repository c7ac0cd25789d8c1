package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gmalickovski/vibraweb/internal/platform/requestctx"
)

func TestParseTraceparent(t *testing.T) {
	sc, ok := parseTraceparent("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	if !ok {
		t.Fatal("expected traceparent to parse")
	}
	if sc.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected trace id %s", sc.TraceID())
	}
	if !sc.IsSampled() || !sc.IsRemote() {
		t.Fatalf("expected sampled remote context")
	}

	for _, bad := range []string{"", "01-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", "00-xyz-00f067aa0ba902b7-01", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7"} {
		if _, ok := parseTraceparent(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestCloudTraceRoundTrip(t *testing.T) {
	sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	if !ok {
		t.Fatal("expected cloud trace header to parse")
	}
	if sc.SpanID().String() != "0000000000000001" {
		t.Fatalf("unexpected span id %s", sc.SpanID())
	}
	if !sc.IsSampled() {
		t.Fatal("expected sampled")
	}

	header := formatCloudTraceHeader(requestctx.TraceInfo{TraceID: sc.TraceID().String(), SpanID: sc.SpanID().String(), Sampled: true})
	if header != "105445aa7843bc8bf206b12000100000/1;o=1" {
		t.Fatalf("unexpected formatted header %s", header)
	}

	if _, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/abc"); ok {
		t.Fatal("expected non-numeric span to be rejected")
	}
}

func TestTraceMiddlewareStoresTraceInfo(t *testing.T) {
	var captured requestctx.TraceInfo
	handler := TraceMiddleware("vibra-dev")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if captured.ProjectID != "vibra-dev" {
		t.Fatalf("expected project id, got %+v", captured)
	}
	if captured.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("expected propagated trace id, got %s", captured.TraceID)
	}
}

func TestRequestLoggerEmitsAnnotations(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := InjectLoggerMiddleware(logger)(RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestctx.Annotate(r.Context(), "analysis_id", "anl_01")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/analyses:calculate", nil))

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["analysis_id"] != "anl_01" {
		t.Fatalf("expected annotation on log entry, got %v", fields)
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Fatalf("unexpected status field %v", fields["status"])
	}
	if fields["bytes"] != int64(2) {
		t.Fatalf("unexpected bytes field %v", fields["bytes"])
	}
}

func TestRecoveryMiddlewareWritesJSONError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal_server_error") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatal("expected panic to be logged")
	}
}

func TestEventLoggerUsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := requestctx.WithLogger(context.Background(), zap.New(core))

	log := EventLogger(nil)
	log(ctx, "analysis.calculated", map[string]any{"expression": 7})
	log(ctx, "narrative.lookup.failed", map[string]any{"label": "Destino"})

	if logs.FilterMessage("analysis.calculated").FilterLevelExact(zapcore.DebugLevel).Len() != 1 {
		t.Fatal("expected debug entry for routine event")
	}
	if logs.FilterMessage("narrative.lookup.failed").FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatal("expected warn entry for failure event")
	}
}

func TestSanitizeStringDropsControlCharacters(t *testing.T) {
	if got := sanitizeString("GET\r\n/x", 0); got != "GET/x" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := SanitizeMethod("VERYLONGMETHODNAME"); len(got) != 10 {
		t.Fatalf("expected truncation, got %q", got)
	}
	if SanitizeRoute("") != "/" {
		t.Fatal("expected root route for empty input")
	}
}
