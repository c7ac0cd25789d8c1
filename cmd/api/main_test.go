package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
	"github.com/gmalickovski/vibraweb/internal/narrative"
	"github.com/gmalickovski/vibraweb/internal/platform/config"
	"github.com/gmalickovski/vibraweb/internal/services"
)

func TestRequiredSecretNames(t *testing.T) {
	if got := requiredSecretNames(nil); len(got) != 0 {
		t.Fatalf("expected no required secrets for nil env, got %v", got)
	}
	if got := requiredSecretNames(map[string]string{"API_NARRATIVE_BASE_URL": "  "}); len(got) != 0 {
		t.Fatalf("expected no required secrets without a CMS, got %v", got)
	}
	got := requiredSecretNames(map[string]string{"API_NARRATIVE_BASE_URL": "https://cms.example.com"})
	if len(got) != 1 || got[0] != "Narrative.AuthToken" {
		t.Fatalf("expected CMS token to be required, got %v", got)
	}
}

func writeNarrative(t *testing.T, dir, slug, name, body string) {
	t.Helper()
	path := filepath.Join(dir, slug)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNewNarrativeSourceDirectoryOnly(t *testing.T) {
	dir := t.TempDir()
	writeNarrative(t, dir, "expressao", "7.md", "Sete é análise.\n")

	source, err := newNarrativeSource(config.NarrativeConfig{ContentDir: dir, CacheSize: 4, CacheTTL: time.Minute}, zap.NewNop())
	if err != nil {
		t.Fatalf("newNarrativeSource returned error: %v", err)
	}

	blocks, err := source.Lookup(context.Background(), "Expressão", 7)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Text != "Sete é análise." {
		t.Fatalf("unexpected blocks %+v", blocks)
	}
	if _, err := source.Lookup(context.Background(), "Expressão", 8); !errors.Is(err, narrative.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewNarrativeSourceRemoteFallsBackToDirectory(t *testing.T) {
	dir := t.TempDir()
	writeNarrative(t, dir, "destino", "4.md", "Quatro constrói.\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source, err := newNarrativeSource(config.NarrativeConfig{
		ContentDir: dir,
		BaseURL:    server.URL,
		AuthToken:  "token",
		Timeout:    time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("newNarrativeSource returned error: %v", err)
	}

	blocks, err := source.Lookup(context.Background(), "Destino", 4)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Text != "Quatro constrói." {
		t.Fatalf("unexpected blocks %+v", blocks)
	}
}

func TestNewNarrativeSourceRecoversAfterCMSOutage(t *testing.T) {
	dir := t.TempDir()
	writeNarrative(t, dir, "destino", "4.md", "Quatro local.\n")

	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"blocks": []map[string]string{{"id": "cms-1", "type": "paragraph", "text": "Do CMS."}},
		})
	}))
	defer server.Close()

	source, err := newNarrativeSource(config.NarrativeConfig{
		ContentDir: dir,
		BaseURL:    server.URL,
		Timeout:    time.Second,
		CacheSize:  8,
		CacheTTL:   time.Hour,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("newNarrativeSource returned error: %v", err)
	}
	ctx := context.Background()

	blocks, err := source.Lookup(ctx, "Destino", 4)
	if err != nil || len(blocks) != 1 || blocks[0].Text != "Quatro local." {
		t.Fatalf("expected directory content during outage, got %+v (%v)", blocks, err)
	}
	if _, err := source.Lookup(ctx, "Missão", 9); !errors.Is(err, narrative.ErrNotFound) {
		t.Fatalf("expected ErrNotFound during outage, got %v", err)
	}

	healthy.Store(true)

	for _, key := range []struct {
		label string
		value int
	}{{"Destino", 4}, {"Missão", 9}} {
		blocks, err := source.Lookup(ctx, key.label, key.value)
		if err != nil {
			t.Fatalf("%s %d: expected CMS content after recovery, got %v", key.label, key.value, err)
		}
		if len(blocks) != 1 || blocks[0].ID != "cms-1" {
			t.Fatalf("%s %d: expected CMS block, got %+v", key.label, key.value, blocks)
		}
	}
}

func TestNewNarrativeSourceRequiresDirectory(t *testing.T) {
	if _, err := newNarrativeSource(config.NarrativeConfig{}, zap.NewNop()); err == nil {
		t.Fatalf("expected error for blank content directory")
	}
}

func TestNewSystemService(t *testing.T) {
	if _, err := newSystemService(nil, nil, services.BuildInfo{}); err == nil {
		t.Fatalf("expected error without dependency checks")
	}

	source := narrative.NewFSSource(os.DirFS(t.TempDir()))
	svc, err := newSystemService(source, nil, services.BuildInfo{Version: "1.2.3"})
	if err != nil {
		t.Fatalf("newSystemService returned error: %v", err)
	}
	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("HealthReport returned error: %v", err)
	}
	if report.Status != domain.HealthStatusOK || report.Version != "1.2.3" {
		t.Fatalf("unexpected report %+v", report)
	}
	if check, ok := report.Checks["narratives"]; !ok || check.Status != domain.HealthStatusOK {
		t.Fatalf("expected narratives check ok, got %+v", report.Checks)
	}
}
