package domain

import (
	"time"

	"github.com/gmalickovski/vibraweb/internal/numerology"
)

// Analysis is a single evaluation of the numerology engine for one person.
type Analysis struct {
	ID           string
	Name         string
	BirthDate    string
	Result       numerology.Result
	CalculatedAt time.Time
}

// NarrativeBlock is one paragraph of interpretive text.
type NarrativeBlock struct {
	ID   string
	Text string
	HTML string
}

// NarrativeSection groups the blocks resolved for a single (title, value) key.
type NarrativeSection struct {
	Title  string
	Value  int
	Blocks []NarrativeBlock
}

// AnalysisReport couples an analysis with its narrative sections and plain-text summary.
type AnalysisReport struct {
	Analysis Analysis
	Summary  string
	Sections []NarrativeSection
}

const (
	// HealthStatusOK indicates all dependencies are healthy.
	HealthStatusOK = "ok"
	// HealthStatusDegraded indicates at least one dependency is degraded but service remains running.
	HealthStatusDegraded = "degraded"
	// HealthStatusError indicates the service or a critical dependency is unavailable.
	HealthStatusError = "error"
)

// SystemHealthCheck describes the outcome of an individual dependency check.
type SystemHealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates dependency status for health endpoints.
type SystemHealthReport struct {
	Status      string
	Checks      map[string]SystemHealthCheck
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	GeneratedAt time.Time
}
