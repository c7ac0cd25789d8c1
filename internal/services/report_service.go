package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
	"github.com/gmalickovski/vibraweb/internal/narrative"
	"github.com/gmalickovski/vibraweb/internal/numerology"
)

const defaultReportConcurrency = 8

var (
	errReportAnalysesRequired   = errors.New("report: analysis service is required")
	errReportNarrativesRequired = errors.New("report: narrative source is required")
)

// ReportServiceDeps wires the collaborators of the report service.
type ReportServiceDeps struct {
	Analyses    AnalysisService
	Narratives  NarrativeSource
	Concurrency int
	Logger      func(context.Context, string, map[string]any)
	Tracer      trace.Tracer
	Meter       metric.Meter
}

type reportService struct {
	analyses    AnalysisService
	narratives  NarrativeSource
	concurrency int
	logger      func(context.Context, string, map[string]any)
	tracer      trace.Tracer
	lookups     metric.Int64Counter
}

var _ ReportService = (*reportService)(nil)

// NewReportService constructs a ReportService.
func NewReportService(deps ReportServiceDeps) (ReportService, error) {
	if deps.Analyses == nil {
		return nil, errReportAnalysesRequired
	}
	if deps.Narratives == nil {
		return nil, errReportNarrativesRequired
	}

	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultReportConcurrency
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	meter := deps.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	lookups, err := meter.Int64Counter("narratives.lookups",
		metric.WithDescription("Narrative lookups performed while building reports."),
	)
	if err != nil {
		lookups, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("narratives.lookups")
	}

	return &reportService{
		analyses:    deps.Analyses,
		narratives:  deps.Narratives,
		concurrency: concurrency,
		logger:      logger,
		tracer:      tracer,
		lookups:     lookups,
	}, nil
}

// Generate runs the analysis and resolves every narrative key. Missing or failing narratives
// leave their section with no blocks.
func (s *reportService) Generate(ctx context.Context, cmd AnalysisCommand) (AnalysisReport, error) {
	if s == nil {
		return AnalysisReport{}, ErrAnalysisUnavailable
	}

	analysis, err := s.analyses.Calculate(ctx, cmd)
	if err != nil {
		return AnalysisReport{}, err
	}

	ctx, span := s.tracer.Start(ctx, "report.generate", trace.WithAttributes(
		attribute.String("analysis.id", analysis.ID),
	))
	defer span.End()

	keys := numerology.NarrativeKeys(analysis.Result)
	sections := make([]domain.NarrativeSection, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			sections[i] = domain.NarrativeSection{
				Title:  key.Label,
				Value:  key.Value,
				Blocks: s.resolve(gctx, key),
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return AnalysisReport{}, fmt.Errorf("report: %w", err)
	}

	return domain.AnalysisReport{
		Analysis: analysis,
		Summary:  Summary(analysis),
		Sections: sections,
	}, nil
}

func (s *reportService) resolve(ctx context.Context, key numerology.NarrativeKey) []domain.NarrativeBlock {
	labels := []string{key.Label}
	if key.AltLabel != "" {
		labels = append(labels, key.AltLabel)
	}

	for _, label := range labels {
		blocks, err := s.narratives.Lookup(ctx, label, key.Value)
		switch {
		case err == nil:
			s.recordLookup(ctx, "hit")
			return blocks
		case errors.Is(err, narrative.ErrNotFound):
			s.recordLookup(ctx, "miss")
			continue
		default:
			s.recordLookup(ctx, "error")
			s.logger(ctx, "narrative.lookup.failed", map[string]any{
				"label": label,
				"value": key.Value,
				"error": err.Error(),
			})
			return nil
		}
	}
	return nil
}

func (s *reportService) recordLookup(ctx context.Context, outcome string) {
	s.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Summary renders the plain-text overview of an analysis.
func Summary(analysis Analysis) string {
	r := analysis.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Análise de Propósito para %s, nascido em %s.\n\n", analysis.Name, analysis.BirthDate)

	section := func(title string, lines ...string) {
		content := strings.Join(lines, "\n")
		if content == "" {
			return
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", title, content)
	}

	section("Números Principais",
		"Expressão: "+strconv.Itoa(r.Expression),
		"Motivação: "+strconv.Itoa(r.Motivation),
		"Impressão: "+strconv.Itoa(r.Impression),
		"Destino: "+strconv.Itoa(r.Destiny),
		"Missão: "+strconv.Itoa(r.Mission),
	)
	section("Débitos Cármicos", joinInts(r.KarmicDebts))
	section("Lições Cármicas", joinInts(r.KarmicLessons))
	section("Tendências Ocultas", joinInts(r.HiddenTendencies))
	section("Ano Pessoal", strconv.Itoa(r.PersonalYear))

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
