package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gmalickovski/vibraweb/internal/platform/requestctx"
)

func TestWriteErrorEnvelope(t *testing.T) {
	ctx := requestctx.WithTrace(context.Background(), requestctx.TraceInfo{TraceID: "trace-1"})
	rr := httptest.NewRecorder()

	WriteError(ctx, rr, NewError("invalid_request", "nome is required\nplease", http.StatusBadRequest).
		WithRequestID("req-9").
		WithDetails(map[string]any{"field": "nome"}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %s", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "invalid_request" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
	if body["message"] != "nome is required please" {
		t.Fatalf("expected newline stripped, got %q", body["message"])
	}
	if body["request_id"] != "req-9" || body["trace_id"] != "trace-1" {
		t.Fatalf("unexpected ids %v %v", body["request_id"], body["trace_id"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["field"] != "nome" {
		t.Fatalf("unexpected details %v", body["details"])
	}
}

func TestWriteErrorDefaultsStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(context.Background(), rr, Error{Code: "boom"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "request_id") {
		t.Fatalf("expected request_id omitted, got %s", rr.Body.String())
	}
}
