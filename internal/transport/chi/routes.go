package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of API operations mounted by Handler.
type ServerInterface interface {
	// POST /api/v1/boolean
	GenerateBoolean(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/boolean
	GetBoolean(w http.ResponseWriter, r *http.Request, params GetBooleanParams)
	// POST /api/v1/boolean/assist
	AssistBoolean(w http.ResponseWriter, r *http.Request)
	// POST /api/v1/boolean/batch
	BatchBoolean(w http.ResponseWriter, r *http.Request)
	// POST /api/v1/handoff
	Handoff(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/platforms
	ListPlatforms(w http.ResponseWriter, r *http.Request)
	// GET /usage
	GetUsage(w http.ResponseWriter, r *http.Request, params GetUsageParams)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// Options configures Handler.
type Options struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is passed to ErrorHandlerFunc when a query parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// Handler mounts si on a chi router and returns it.
func Handler(si ServerInterface, opts Options) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}
	wrapper := serverInterfaceWrapper{handler: si, errorHandler: opts.ErrorHandlerFunc}

	r.Group(func(r chi.Router) {
		r.Post("/api/v1/boolean", si.GenerateBoolean)
		r.Get("/api/v1/boolean", wrapper.GetBoolean)
		r.Post("/api/v1/boolean/assist", si.AssistBoolean)
		r.Post("/api/v1/boolean/batch", si.BatchBoolean)
		r.Post("/api/v1/handoff", si.Handoff)
		r.Get("/api/v1/platforms", si.ListPlatforms)
		r.Get("/usage", wrapper.GetUsage)
		r.Get("/health", si.HealthCheck)
		r.Get("/metrics", si.Metrics)
	})
	return r
}

type serverInterfaceWrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// GetBoolean binds the query parameters of GET /api/v1/boolean.
func (sw *serverInterfaceWrapper) GetBoolean(w http.ResponseWriter, r *http.Request) {
	var params GetBooleanParams
	query := r.URL.Query()

	bindings := []struct {
		name string
		dest **string
	}{
		{"role", &params.Role},
		{"skills", &params.Skills},
		{"exclude", &params.Exclude},
		{"location", &params.Location},
		{"platform", &params.Platform},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			sw.errorHandler(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	sw.handler.GetBoolean(w, r, params)
}

// GetUsage binds the query parameters of GET /usage.
func (sw *serverInterfaceWrapper) GetUsage(w http.ResponseWriter, r *http.Request) {
	var params GetUsageParams
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &params.Period); err != nil {
		sw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "period", Err: err})
		return
	}

	sw.handler.GetUsage(w, r, params)
}
