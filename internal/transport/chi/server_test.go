package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/domain/handoff"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
	domusage "github.com/kailas-cloud/sourcer/internal/domain/usage"
	"github.com/kailas-cloud/sourcer/internal/domain/usage/metrics"
	batchuc "github.com/kailas-cloud/sourcer/internal/usecase/batch"
	generateuc "github.com/kailas-cloud/sourcer/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/sourcer/internal/usecase/health"
	usageuc "github.com/kailas-cloud/sourcer/internal/usecase/usage"
)

const defaultNots = "NOT intern NOT junior NOT bootcamp NOT entry NOT trainee"

// --- Mocks ---

type mockAssister struct {
	available bool
	bundle    result.Bundle
	tokens    int
	err       error
}

func (m *mockAssister) Available() bool { return m.available }

func (m *mockAssister) Generate(ctx context.Context, _ *request.Request) (result.Bundle, error) {
	if m.err != nil {
		return result.Bundle{}, m.err
	}
	domain.AssistUsageFromContext(ctx).AddTokens(m.tokens)
	return m.bundle, nil
}

type mockReader struct {
	m metrics.Metrics
}

func (r *mockReader) Snapshot(_ domusage.Period) metrics.Metrics { return r.m }

type mockPinger struct {
	err error
}

func (p *mockPinger) Ping(_ context.Context) error { return p.err }

// --- Helpers ---

type testDeps struct {
	assist *mockAssister
	reader *mockReader
	store  *mockPinger
}

func newTestRouter(t *testing.T, deps testDeps) http.Handler {
	t.Helper()
	if deps.assist == nil {
		deps.assist = &mockAssister{}
	}
	if deps.reader == nil {
		deps.reader = &mockReader{}
	}
	if deps.store == nil {
		deps.store = &mockPinger{}
	}

	gen := generateuc.New(deps.assist, nil)
	batch, err := batchuc.New(gen, 2)
	if err != nil {
		t.Fatalf("batch.New: %v", err)
	}
	t.Cleanup(batch.Close)
	batch.WithMaxBatchSize(3)

	srv := NewServer(gen, batch, usageuc.New(deps.reader), healthuc.New(deps.store, nil), zap.NewNop())
	return Handler(srv, Options{})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

// --- Tests ---

func TestGenerateBoolean_LinkedInScenario(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean", BooleanRequest{
		Role:     "Software Engineer",
		Skills:   "TypeScript",
		Location: "NYC",
		Platform: "LinkedIn",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	b := decode[result.Bundle](t, rr)
	want := `(site:linkedin.com/in OR site:linkedin.com/pub) AND ` +
		`("Software Engineer" OR "software engineer" OR developer OR programmer OR SWE OR "software developer" OR engineer) AND ` +
		`(TypeScript OR TS) AND ` +
		`(NYC OR "New York" OR "New York City" OR Manhattan OR Brooklyn) AND ` +
		defaultNots
	if b.Boolean != want {
		t.Errorf("Boolean mismatch\ngot:  %s\nwant: %s", b.Boolean, want)
	}
	if b.PromptVersion != result.VersionLocal {
		t.Errorf("PromptVersion = %q", b.PromptVersion)
	}
	if !strings.HasSuffix(b.Explanation, "• Platform mode: LinkedIn") {
		t.Errorf("Explanation = %q", b.Explanation)
	}
}

func TestGenerateBoolean_DefaultsToLinkedIn(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean", BooleanRequest{Role: "Sommelier"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	b := decode[result.Bundle](t, rr)
	if !strings.HasPrefix(b.Boolean, "(site:linkedin.com/in OR site:linkedin.com/pub) AND Sommelier") {
		t.Errorf("Boolean = %q", b.Boolean)
	}
}

func TestGenerateBoolean_EmptyRole_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean", BooleanRequest{Role: "   ", Skills: "Go"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	e := decode[ErrorResponse](t, rr)
	if e.Code != ErrorCodeValidationFailed {
		t.Errorf("code = %q", e.Code)
	}
	if !strings.Contains(e.Message, "role is required") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestGenerateBoolean_UnknownPlatform_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean", BooleanRequest{Role: "Engineer", Platform: "MySpace"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeValidationFailed {
		t.Errorf("code = %q", e.Code)
	}
}

func TestGenerateBoolean_MalformedBody_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean", `{"role":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeBadRequest {
		t.Errorf("code = %q", e.Code)
	}
}

func TestGetBoolean_QueryParams(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/api/v1/boolean?role=Sommelier&platform=Generic&exclude=manager", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	b := decode[result.Bundle](t, rr)
	if want := "Sommelier AND " + defaultNots + " NOT manager"; b.Boolean != want {
		t.Errorf("Boolean = %q, want %q", b.Boolean, want)
	}
}

func TestGetBoolean_MissingRole_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/api/v1/boolean?platform=GitHub", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAssistBoolean_Success(t *testing.T) {
	assist := &mockAssister{
		available: true,
		bundle:    result.Bundle{Boolean: "x AND y", Explanation: "• e", PromptVersion: result.VersionAssist},
		tokens:    42,
	}
	h := newTestRouter(t, testDeps{assist: assist})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/assist", BooleanRequest{Role: "Engineer"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Assist-Tokens"); got != "42" {
		t.Errorf("X-Assist-Tokens = %q, want 42", got)
	}
	if b := decode[result.Bundle](t, rr); b != assist.bundle {
		t.Errorf("bundle = %+v", b)
	}
}

func TestAssistBoolean_Unavailable_503(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/assist", BooleanRequest{Role: "Engineer"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeAssistUnavailable {
		t.Errorf("code = %q", e.Code)
	}
}

func TestAssistBoolean_ProviderError_502(t *testing.T) {
	assist := &mockAssister{
		available: true,
		err:       domain.NewProviderError("anthropic", 529, `{"type":"overloaded_error"}`),
	}
	h := newTestRouter(t, testDeps{assist: assist})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/assist", BooleanRequest{Role: "Engineer"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	e := decode[ErrorResponse](t, rr)
	if e.Code != ErrorCodeAssistProviderError {
		t.Errorf("code = %q", e.Code)
	}
	if e.Upstream == nil {
		t.Fatal("upstream missing")
	}
	if e.Upstream.Provider != "anthropic" || e.Upstream.StatusCode != 529 || e.Upstream.Body != `{"type":"overloaded_error"}` {
		t.Errorf("upstream = %+v", *e.Upstream)
	}
}

func TestAssistBoolean_UnknownError_500(t *testing.T) {
	assist := &mockAssister{available: true, err: errors.New("boom")}
	h := newTestRouter(t, testDeps{assist: assist})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/assist", BooleanRequest{Role: "Engineer"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	e := decode[ErrorResponse](t, rr)
	if e.Code != ErrorCodeInternalError || e.Message != "internal error" {
		t.Errorf("error = %+v", e)
	}
}

func TestBatchBoolean_MixedResults(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/batch", BatchRequest{Items: []BooleanRequest{
		{Role: "Sommelier", Platform: "Generic"},
		{Role: ""},
		{Role: "Designer", Platform: "Generic"},
	}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	resp := decode[BatchResponse](t, rr)
	if resp.Succeeded != 2 || resp.Failed != 1 {
		t.Errorf("succeeded=%d failed=%d", resp.Succeeded, resp.Failed)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("items = %d", len(resp.Items))
	}
	for i, it := range resp.Items {
		if it.Index != i {
			t.Errorf("item %d has index %d", i, it.Index)
		}
	}
	if resp.Items[0].Result == nil || resp.Items[0].Result.Boolean != "Sommelier AND "+defaultNots {
		t.Errorf("item 0 = %+v", resp.Items[0])
	}
	if resp.Items[1].Error == nil || resp.Items[1].Error.Code != ErrorCodeValidationFailed {
		t.Errorf("item 1 = %+v", resp.Items[1])
	}
	if resp.Items[2].Result == nil {
		t.Errorf("item 2 = %+v", resp.Items[2])
	}
}

func TestBatchBoolean_AssistUnavailablePerItem(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/batch", BatchRequest{
		Items:  []BooleanRequest{{Role: "Engineer"}},
		Assist: true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[BatchResponse](t, rr)
	if resp.Failed != 1 || resp.Items[0].Error == nil || resp.Items[0].Error.Code != ErrorCodeAssistUnavailable {
		t.Errorf("resp = %+v", resp)
	}
}

func TestBatchBoolean_TooLarge_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	items := make([]BooleanRequest, 4)
	for i := range items {
		items[i] = BooleanRequest{Role: "Engineer"}
	}
	rr := do(t, h, http.MethodPost, "/api/v1/boolean/batch", BatchRequest{Items: items})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeValidationFailed {
		t.Errorf("code = %q", e.Code)
	}
}

func TestBatchBoolean_Empty_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/boolean/batch", BatchRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandoff(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodPost, "/api/v1/handoff", BooleanRequest{Role: "Engineer", Location: "Berlin"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[handoff.Handoff](t, rr)
	want := "Source top Engineer candidates. Location: Berlin. Return 25 high-signal profiles with emails if available."
	if got.Prompt != want {
		t.Errorf("Prompt = %q", got.Prompt)
	}
	if !strings.HasPrefix(got.Link, handoff.BaseURL+"?prompt=Source+top+Engineer") {
		t.Errorf("Link = %q", got.Link)
	}
}

func TestListPlatforms(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/api/v1/platforms", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[PlatformsResponse](t, rr)
	if resp.Default != "LinkedIn" {
		t.Errorf("Default = %q", resp.Default)
	}
	names := make([]string, len(resp.Platforms))
	for i, p := range resp.Platforms {
		names[i] = p.Name
	}
	if got := strings.Join(names, ","); got != "LinkedIn,GitHub,Google X-Ray,Generic" {
		t.Errorf("platforms = %s", got)
	}
	if resp.Platforms[3].Prefix != "" {
		t.Errorf("Generic prefix = %q", resp.Platforms[3].Prefix)
	}
}

func TestGetUsage(t *testing.T) {
	reader := &mockReader{m: metrics.New(7, 2, 900, 1)}
	h := newTestRouter(t, testDeps{reader: reader})

	rr := do(t, h, http.MethodGet, "/usage?period=month", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[UsageResponse](t, rr)
	if resp.Period != "month" {
		t.Errorf("Period = %q", resp.Period)
	}
	if resp.PeriodStartAt == nil || resp.PeriodEndAt == nil {
		t.Error("month report must carry period bounds")
	}
	want := UsageMetrics{LocalGenerations: 7, AssistGenerations: 2, AssistTokens: 900, Failures: 1, Total: 9}
	if resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}
}

func TestGetUsage_DefaultsToDay(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/usage", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp := decode[UsageResponse](t, rr); resp.Period != "day" {
		t.Errorf("Period = %q", resp.Period)
	}
}

func TestGetUsage_TotalHasNoBounds(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/usage?period=total", nil)
	resp := decode[UsageResponse](t, rr)
	if resp.PeriodStartAt != nil || resp.PeriodEndAt != nil {
		t.Error("total report must not carry period bounds")
	}
}

func TestGetUsage_InvalidPeriod_400(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/usage?period=week", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["store"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHealthCheck_Degraded_503(t *testing.T) {
	h := newTestRouter(t, testDeps{store: &mockPinger{err: errors.New("down")}})

	rr := do(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if resp := decode[HealthResponse](t, rr); resp.Status != "degraded" {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rr := do(t, h, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSafeDomainMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrAssistUnavailable, "assist unavailable"},
		{domain.NewProviderError("openai", 500, "secret body"), "assist provider error"},
		{errors.New("db password=hunter2"), "internal error"},
	}
	for _, tc := range tests {
		if got := safeDomainMessage(tc.err); got != tc.want {
			t.Errorf("safeDomainMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
