package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gmalickovski/vibraweb/internal/narrative"
	"github.com/gmalickovski/vibraweb/internal/numerology"
)

type stubNarrativeSource struct {
	mu       sync.Mutex
	blocks   map[string][]NarrativeBlock
	failures map[string]error
	calls    []string
	block    chan struct{}
}

func narrativeKey(label string, value int) string {
	return fmt.Sprintf("%s|%d", label, value)
}

func (s *stubNarrativeSource) Lookup(ctx context.Context, label string, value int) ([]NarrativeBlock, error) {
	key := narrativeKey(label, value)
	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.mu.Unlock()

	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.failures[key]; ok {
		return nil, err
	}
	if blocks, ok := s.blocks[key]; ok {
		return blocks, nil
	}
	return nil, narrative.ErrNotFound
}

func (s *stubNarrativeSource) called(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if call == key {
			return true
		}
	}
	return false
}

func newTestReportService(t *testing.T, source NarrativeSource, recorder *eventRecorder) ReportService {
	t.Helper()
	svc, err := NewReportService(ReportServiceDeps{
		Analyses:    newTestAnalysisService(t, recorder),
		Narratives:  source,
		Concurrency: 4,
		Logger:      recorder.log,
	})
	if err != nil {
		t.Fatalf("NewReportService returned error: %v", err)
	}
	return svc
}

func TestReportServiceGenerate(t *testing.T) {
	source := &stubNarrativeSource{
		blocks: map[string][]NarrativeBlock{
			narrativeKey(numerology.LabelIntroduction, 1):      {{ID: "intro-1", Text: "Bem-vindo.", HTML: "<p>Bem-vindo.</p>"}},
			narrativeKey(numerology.LabelExpression, 7):        {{ID: "expr-7", Text: "Sete.", HTML: "<p>Sete.</p>"}},
			narrativeKey(numerology.LabelDecisiveMomentAlt, 5): {{ID: "alt-5", Text: "Cinco.", HTML: "<p>Cinco.</p>"}},
		},
		failures: map[string]error{
			narrativeKey(numerology.LabelDestiny, 4): errors.New("cms down"),
		},
	}
	recorder := &eventRecorder{}
	svc := newTestReportService(t, source, recorder)

	report, err := svc.Generate(context.Background(), AnalysisCommand{Name: "ANA", BirthDate: "01/01/2000"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if report.Analysis.ID != "anl_01hzx5abcdef" {
		t.Fatalf("unexpected analysis id %s", report.Analysis.ID)
	}
	if len(report.Sections) != 34 {
		t.Fatalf("expected 34 sections, got %d", len(report.Sections))
	}

	first := report.Sections[0]
	if first.Title != numerology.LabelIntroduction || first.Value != 1 || len(first.Blocks) != 1 || first.Blocks[0].ID != "intro-1" {
		t.Fatalf("unexpected first section %+v", first)
	}
	last := report.Sections[len(report.Sections)-1]
	if last.Title != numerology.LabelConclusion || len(last.Blocks) != 0 {
		t.Fatalf("unexpected last section %+v", last)
	}

	sections := map[string]NarrativeSection{}
	for _, section := range report.Sections {
		sections[narrativeKey(section.Title, section.Value)] = section
	}
	if got := sections[narrativeKey(numerology.LabelExpression, 7)]; len(got.Blocks) != 1 {
		t.Fatalf("expected expression narrative, got %+v", got)
	}
	if got := sections[narrativeKey(numerology.LabelDestiny, 4)]; got.Title == "" || len(got.Blocks) != 0 {
		t.Fatalf("expected failed lookup to degrade to empty blocks, got %+v", got)
	}
	moment := sections[narrativeKey(numerology.LabelDecisiveMoment, 5)]
	if len(moment.Blocks) != 1 || moment.Blocks[0].ID != "alt-5" {
		t.Fatalf("expected alternate label content for decisive moment, got %+v", moment)
	}
	if moment.Title != numerology.LabelDecisiveMoment {
		t.Fatalf("section title should keep the primary label, got %q", moment.Title)
	}
	if !source.called(narrativeKey(numerology.LabelDecisiveMoment, 5)) {
		t.Fatal("expected primary label to be tried first")
	}

	failures := recorder.named("narrative.lookup.failed")
	if len(failures) != 1 || failures[0].fields["label"] != numerology.LabelDestiny {
		t.Fatalf("expected a single lookup failure event, got %+v", failures)
	}

	wantSummary := "Análise de Propósito para ANA, nascido em 01/01/2000.\n\n" +
		"Números Principais:\nExpressão: 7\nMotivação: 2\nImpressão: 5\nDestino: 4\nMissão: 11\n\n" +
		"Débitos Cármicos:\n13, 16\n\n" +
		"Lições Cármicas:\n2, 3, 4, 6, 7, 8, 9\n\n" +
		"Ano Pessoal:\n3\n\n"
	if report.Summary != wantSummary {
		t.Fatalf("unexpected summary:\n%q\nwant:\n%q", report.Summary, wantSummary)
	}
}

func TestReportServicePropagatesInvalidInput(t *testing.T) {
	svc := newTestReportService(t, &stubNarrativeSource{}, &eventRecorder{})

	_, err := svc.Generate(context.Background(), AnalysisCommand{Name: "", BirthDate: "01/01/2000"})
	if !errors.Is(err, ErrAnalysisInvalidInput) {
		t.Fatalf("expected ErrAnalysisInvalidInput, got %v", err)
	}
}

func TestReportServiceHonoursCancellation(t *testing.T) {
	source := &stubNarrativeSource{block: make(chan struct{})}
	svc := newTestReportService(t, source, &eventRecorder{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Generate(ctx, AnalysisCommand{Name: "ANA", BirthDate: "01/01/2000"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewReportServiceRequiresDependencies(t *testing.T) {
	if _, err := NewReportService(ReportServiceDeps{Narratives: &stubNarrativeSource{}}); err == nil {
		t.Fatal("expected error without analysis service")
	}
	analyses := newTestAnalysisService(t, &eventRecorder{})
	if _, err := NewReportService(ReportServiceDeps{Analyses: analyses}); err == nil {
		t.Fatal("expected error without narrative source")
	}
}

func TestSummaryOmitsEmptySections(t *testing.T) {
	analysis := Analysis{
		Name:      "Teste",
		BirthDate: "02/02/2002",
		Result: numerology.Result{
			Expression:   1,
			Motivation:   2,
			Impression:   3,
			Destiny:      4,
			Mission:      5,
			PersonalYear: 6,
		},
	}
	want := "Análise de Propósito para Teste, nascido em 02/02/2002.\n\n" +
		"Números Principais:\nExpressão: 1\nMotivação: 2\nImpressão: 3\nDestino: 4\nMissão: 5\n\n" +
		"Ano Pessoal:\n6\n\n"
	if got := Summary(analysis); got != want {
		t.Fatalf("unexpected summary %q", got)
	}
}
