package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
	"github.com/gmalickovski/vibraweb/internal/numerology"
)

const (
	instrumentationName   = "github.com/gmalickovski/vibraweb/internal/services"
	analysisIDPrefix      = "anl_"
	maxAnalysisNameLength = 200
)

var (
	errAnalysisClockRequired = errors.New("analysis: clock is required")
	birthDatePattern         = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// ErrAnalysisInvalidInput indicates the name or birth date failed validation.
var ErrAnalysisInvalidInput = errors.New("analysis: invalid input")

// ErrAnalysisUnavailable indicates the service is not wired.
var ErrAnalysisUnavailable = errors.New("analysis: service unavailable")

// AnalysisServiceDeps wires the collaborators of the analysis service.
type AnalysisServiceDeps struct {
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
	Tracer      trace.Tracer
	Meter       metric.Meter
}

type analysisService struct {
	now        func() time.Time
	newID      func() string
	logger     func(context.Context, string, map[string]any)
	tracer     trace.Tracer
	calculated metric.Int64Counter
	analyze    func(string, numerology.BirthDate, time.Time) numerology.Result
}

var _ AnalysisService = (*analysisService)(nil)

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(deps AnalysisServiceDeps) (AnalysisService, error) {
	clock := deps.Clock
	if clock == nil {
		return nil, errAnalysisClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
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
	calculated, err := meter.Int64Counter("analyses.calculated",
		metric.WithDescription("Number of numerology analyses computed."),
	)
	if err != nil {
		calculated, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("analyses.calculated")
	}

	return &analysisService{
		now:        func() time.Time { return clock().UTC() },
		newID:      func() string { return analysisIDPrefix + strings.ToLower(idGen()) },
		logger:     logger,
		tracer:     tracer,
		calculated: calculated,
		analyze:    numerology.Analyze,
	}, nil
}

// Calculate validates the command and evaluates every numerology attribute.
func (s *analysisService) Calculate(ctx context.Context, cmd AnalysisCommand) (Analysis, error) {
	if s == nil {
		return Analysis{}, ErrAnalysisUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "analysis.calculate")
	defer span.End()

	name, date, err := validateAnalysisCommand(cmd)
	if err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return Analysis{}, err
	}

	now := s.now()
	result := s.analyze(name, date, now)
	if result.MaritalHarmony == nil {
		s.logger(ctx, "analysis.harmony.invariant", map[string]any{
			"love_number": result.LoveNumber,
		})
	}

	analysis := domain.Analysis{
		ID:           s.newID(),
		Name:         name,
		BirthDate:    date.String(),
		Result:       result,
		CalculatedAt: now,
	}

	span.SetAttributes(
		attribute.String("analysis.id", analysis.ID),
		attribute.Int("analysis.expression", result.Expression),
		attribute.Int("analysis.destiny", result.Destiny),
	)
	s.calculated.Add(ctx, 1)
	s.logger(ctx, "analysis.calculated", map[string]any{
		"analysis_id": analysis.ID,
		"expression":  result.Expression,
		"destiny":     result.Destiny,
	})

	return analysis, nil
}

func validateAnalysisCommand(cmd AnalysisCommand) (string, numerology.BirthDate, error) {
	name := strings.Join(strings.Fields(cmd.Name), " ")
	if name == "" {
		return "", numerology.BirthDate{}, fmt.Errorf("%w: nome is required", ErrAnalysisInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxAnalysisNameLength {
		return "", numerology.BirthDate{}, fmt.Errorf("%w: nome exceeds %d characters", ErrAnalysisInvalidInput, maxAnalysisNameLength)
	}

	raw := strings.TrimSpace(cmd.BirthDate)
	if !birthDatePattern.MatchString(raw) {
		return "", numerology.BirthDate{}, fmt.Errorf("%w: dataNascimento must be DD/MM/YYYY", ErrAnalysisInvalidInput)
	}
	date, err := numerology.ParseBirthDate(raw)
	if err != nil {
		return "", numerology.BirthDate{}, fmt.Errorf("%w: %v", ErrAnalysisInvalidInput, err)
	}
	switch {
	case date.Day < 1 || date.Day > 31:
		return "", numerology.BirthDate{}, fmt.Errorf("%w: dataNascimento day must be 01-31", ErrAnalysisInvalidInput)
	case date.Month < 1 || date.Month > 12:
		return "", numerology.BirthDate{}, fmt.Errorf("%w: dataNascimento month must be 01-12", ErrAnalysisInvalidInput)
	case date.Year < 1:
		return "", numerology.BirthDate{}, fmt.Errorf("%w: dataNascimento year must be positive", ErrAnalysisInvalidInput)
	}
	return name, date, nil
}
