package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gmalickovski/vibraweb/internal/platform/httpx"
	"github.com/gmalickovski/vibraweb/internal/platform/requestctx"
	"github.com/gmalickovski/vibraweb/internal/services"
)

const defaultMaxAnalysisBody = 16 * 1024

var (
	errBodyTooLarge = errors.New("request body too large")
	errEmptyBody    = errors.New("request body is required")
)

// AnalysisHandlerOption customises AnalysisHandlers.
type AnalysisHandlerOption func(*AnalysisHandlers)

// WithMaxBodyBytes overrides the request body limit.
func WithMaxBodyBytes(limit int64) AnalysisHandlerOption {
	return func(h *AnalysisHandlers) {
		if limit > 0 {
			h.maxBody = limit
		}
	}
}

// AnalysisHandlers exposes the numerology analysis endpoints.
type AnalysisHandlers struct {
	analyses services.AnalysisService
	reports  services.ReportService
	maxBody  int64
}

// NewAnalysisHandlers constructs the analysis handler set. A nil report service disables the report endpoint.
func NewAnalysisHandlers(analyses services.AnalysisService, reports services.ReportService, opts ...AnalysisHandlerOption) *AnalysisHandlers {
	h := &AnalysisHandlers{
		analyses: analyses,
		reports:  reports,
		maxBody:  defaultMaxAnalysisBody,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the analysis endpoints on the API router.
func (h *AnalysisHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/analyses:calculate", h.calculate)
	r.Post("/analyses:report", h.report)
}

func (h *AnalysisHandlers) calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.analyses == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "analysis service not available", http.StatusServiceUnavailable))
		return
	}

	cmd, ok := h.decodeCommand(w, r)
	if !ok {
		return
	}

	analysis, err := h.analyses.Calculate(ctx, cmd)
	if err != nil {
		writeAnalysisError(ctx, w, err)
		return
	}
	requestctx.Annotate(ctx, "analysis_id", analysis.ID)

	writeJSONResponse(w, http.StatusOK, analysisResponse{
		ID:        analysis.ID,
		Resultado: buildAnalysisResultPayload(analysis.Result),
	})
}

func (h *AnalysisHandlers) report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reports == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "report service not available", http.StatusServiceUnavailable))
		return
	}

	cmd, ok := h.decodeCommand(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Generate(ctx, cmd)
	if err != nil {
		writeAnalysisError(ctx, w, err)
		return
	}
	requestctx.Annotate(ctx, "analysis_id", report.Analysis.ID)

	writeJSONResponse(w, http.StatusOK, buildReportResponse(report))
}

func (h *AnalysisHandlers) decodeCommand(w http.ResponseWriter, r *http.Request) (services.AnalysisCommand, bool) {
	ctx := r.Context()
	body, err := readLimitedBody(r, h.maxBody)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return services.AnalysisCommand{}, false
	}

	var req analysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return services.AnalysisCommand{}, false
	}
	return services.AnalysisCommand{Name: req.Nome, BirthDate: req.DataNascimento}, true
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = defaultMaxAnalysisBody
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeAnalysisError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrAnalysisInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrAnalysisUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "analysis service temporarily unavailable", http.StatusServiceUnavailable))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		httpx.WriteError(ctx, w, httpx.NewError("deadline_exceeded", "request timed out", http.StatusGatewayTimeout))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("analysis_error", "failed to compute analysis", http.StatusInternalServerError))
	}
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	httpx.WriteJSON(w, status, payload)
}
