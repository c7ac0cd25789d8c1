package services

import (
	"context"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

type (
	Analysis           = domain.Analysis
	AnalysisReport     = domain.AnalysisReport
	NarrativeBlock     = domain.NarrativeBlock
	NarrativeSection   = domain.NarrativeSection
	SystemHealthReport = domain.SystemHealthReport
)

// AnalysisCommand carries the raw inputs of an analysis request.
type AnalysisCommand struct {
	Name      string
	BirthDate string
}

// AnalysisService validates inputs and runs the numerology engine.
type AnalysisService interface {
	Calculate(ctx context.Context, cmd AnalysisCommand) (Analysis, error)
}

// ReportService produces an analysis together with its narrative text.
type ReportService interface {
	Generate(ctx context.Context, cmd AnalysisCommand) (AnalysisReport, error)
}

// NarrativeSource resolves interpretive text for a (label, value) key.
type NarrativeSource interface {
	Lookup(ctx context.Context, label string, value int) ([]NarrativeBlock, error)
}

// HealthCollector gathers dependency checks into a health report.
type HealthCollector interface {
	Collect(ctx context.Context) (SystemHealthReport, error)
}

// SystemService exposes operational metadata such as health reports.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}
