package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain"
	dombatch "github.com/kailas-cloud/sourcer/internal/domain/batch"
	"github.com/kailas-cloud/sourcer/internal/domain/handoff"
	"github.com/kailas-cloud/sourcer/internal/domain/query/platform"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	domusage "github.com/kailas-cloud/sourcer/internal/domain/usage"
	batchuc "github.com/kailas-cloud/sourcer/internal/usecase/batch"
	generateuc "github.com/kailas-cloud/sourcer/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/sourcer/internal/usecase/health"
	usageuc "github.com/kailas-cloud/sourcer/internal/usecase/usage"
)

// maxBodyBytes bounds request bodies; a full batch of maximum-length fields fits well below it.
const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	generate      *generateuc.Service
	batch         *batchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	generate *generateuc.Service,
	batch *batchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		generate: generate,
		batch:    batch,
		usage:    usage,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		providerErrorHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrAssistUnavailable, http.StatusServiceUnavailable, ErrorCodeAssistUnavailable),
	}
	return s
}

// GenerateBoolean handles POST /api/v1/boolean.
func (s *Server) GenerateBoolean(w http.ResponseWriter, r *http.Request) {
	var body BooleanRequest
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := requestFromBody(&body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.generate.Local(r.Context(), &req))
}

// GetBoolean handles GET /api/v1/boolean.
func (s *Server) GetBoolean(w http.ResponseWriter, r *http.Request, params GetBooleanParams) {
	req, err := request.New(
		deref(params.Role), deref(params.Skills), deref(params.Exclude),
		deref(params.Location), deref(params.Platform),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.generate.Local(r.Context(), &req))
}

// AssistBoolean handles POST /api/v1/boolean/assist.
func (s *Server) AssistBoolean(w http.ResponseWriter, r *http.Request) {
	var body BooleanRequest
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := requestFromBody(&body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithAssistUsage(r.Context())
	b, err := s.generate.Assist(ctx, &req)
	setAssistHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// BatchBoolean handles POST /api/v1/boolean/batch.
func (s *Server) BatchBoolean(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "items must not be empty")
		return
	}

	items := make([]batchuc.Item, len(body.Items))
	for i, it := range body.Items {
		items[i] = batchuc.Item{
			Role:     it.Role,
			Skills:   it.Skills,
			Exclude:  it.Exclude,
			Location: it.Location,
			Platform: it.Platform,
		}
	}

	results, err := s.batch.Generate(r.Context(), items, body.Assist)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]BatchResultItem, len(results))
	for i, res := range results {
		out[i] = batchResultToAPI(res)
	}
	succeeded, failed := dombatch.Count(results)

	writeJSON(w, http.StatusOK, BatchResponse{
		Items:     out,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// Handoff handles POST /api/v1/handoff.
func (s *Server) Handoff(w http.ResponseWriter, r *http.Request) {
	var body BooleanRequest
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := requestFromBody(&body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, handoff.New(req.Role(), req.Skills(), req.Exclude(), req.Location()))
}

// ListPlatforms handles GET /api/v1/platforms.
func (s *Server) ListPlatforms(w http.ResponseWriter, _ *http.Request) {
	all := platform.All()
	items := make([]PlatformInfo, len(all))
	for i, p := range all {
		items[i] = PlatformInfo{Name: p.String(), Prefix: p.Prefix()}
	}

	writeJSON(w, http.StatusOK, PlatformsResponse{
		Default:   platform.Default.String(),
		Platforms: items,
	})
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request, params GetUsageParams) {
	period, err := domusage.ParsePeriod(deref(params.Period))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)

	m := report.Metrics()
	resp := UsageResponse{
		Period: string(report.Period()),
		Usage: UsageMetrics{
			LocalGenerations:  m.LocalGenerations(),
			AssistGenerations: m.AssistGenerations(),
			AssistTokens:      m.AssistTokens(),
			Failures:          m.Failures(),
			Total:             m.Total(),
		},
	}

	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func requestFromBody(b *BooleanRequest) (request.Request, error) {
	return request.New(b.Role, b.Skills, b.Exclude, b.Location, b.Platform)
}

// decodeBody writes a bad_request error and returns false when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func setAssistHeaders(w http.ResponseWriter, usage *domain.AssistUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Assist-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors are built from request fields and are returned in full.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrBatchTooLarge) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrAssistUnavailable,
		domain.ErrAssistProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// providerErrorHandler handles ErrAssistProviderError and attaches the upstream payload.
func providerErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrAssistProviderError) {
		return false
	}
	writeJSON(w, http.StatusBadGateway, ErrorResponse{
		Code:     ErrorCodeAssistProviderError,
		Message:  msg,
		Upstream: upstreamFromError(err),
	})
	return true
}

func upstreamFromError(err error) *UpstreamError {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return nil
	}
	return &UpstreamError{Provider: pe.Provider, StatusCode: pe.StatusCode, Body: pe.Body}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func batchResultToAPI(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{Index: r.Index()}
	if r.Status() == dombatch.StatusOK {
		b := r.Bundle()
		item.Result = &b
		return item
	}
	item.Error = &ErrorResponse{
		Code:     batchErrorCode(r.Err()),
		Message:  safeDomainMessage(r.Err()),
		Upstream: upstreamFromError(r.Err()),
	}
	return item
}

func batchErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return ErrorCodeValidationFailed
	case errors.Is(err, domain.ErrAssistUnavailable):
		return ErrorCodeAssistUnavailable
	case errors.Is(err, domain.ErrAssistProviderError):
		return ErrorCodeAssistProviderError
	default:
		return ErrorCodeInternalError
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
