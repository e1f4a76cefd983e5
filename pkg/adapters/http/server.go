// Package http exposes an intake Engine as a JSON API.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/aretw0/intake/pkg/publish"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Engine is the part of intake.Engine served over HTTP.
type Engine interface {
	SaveDraft(ctx context.Context, draft domain.Draft) error
	Draft(ctx context.Context, intakeID string) (domain.Draft, error)
	Validate(ctx context.Context, intakeID string) (validator.Report, error)
	Publish(ctx context.Context, intakeID string) (*publish.Result, error)
	Published(ctx context.Context, intakeID string) (domain.Snapshot, error)
	Next(ctx context.Context, intakeID, from string, answers domain.Answers) (intake.Step, error)
	Path(ctx context.Context, intakeID string, answers domain.Answers) ([]string, error)
	Submit(ctx context.Context, intakeID string, answers domain.Answers, meta map[string]any) (*intake.SubmitResult, error)
	Summary(ctx context.Context, intakeID string) (proposal.Summary, error)
	ApplyProposal(ctx context.Context, intakeID string, p proposal.Proposal) (*publish.ProposalResult, error)
	GenerateProposal(ctx context.Context, intakeID string) (*publish.ProposalResult, error)
}

var _ Engine = (*intake.Engine)(nil)

// Server holds the handlers of the API.
type Server struct {
	Engine Engine

	logger  *slog.Logger
	metrics http.Handler
	router  routers.Router
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	if s.router, err = gorillamux.NewRouter(doc); err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapiSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/intakes/{id}", func(r chi.Router) {
		r.Use(s.validateRequest)

		r.Get("/draft", s.GetDraft)
		r.Put("/draft", s.PutDraft)
		r.Post("/validate", s.ValidateDraft)
		r.Post("/publish", s.Publish)
		r.Get("/published", s.GetPublished)
		r.Post("/next", s.Next)
		r.Post("/path", s.Path)
		r.Post("/submissions", s.Submit)
		r.Get("/summary", s.GetSummary)
		r.Post("/proposals", s.ApplyProposal)
		r.Post("/proposals/generate", s.GenerateProposal)
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Issues []validator.Issue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps engine errors to responses. Anything unexpected becomes a
// generic 500; the cause is only logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var failed *publish.ValidationFailedError
	var rejected *publish.ProposalRejectedError

	switch {
	case errors.As(err, &failed):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: publish.ErrValidationFailed.Error(), Issues: failed.Issues})
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: publish.ErrProposalRejected.Error(), Issues: rejected.Issues})
	case errors.Is(err, domain.ErrIntakeNotFound),
		errors.Is(err, domain.ErrNotPublished),
		errors.Is(err, domain.ErrSectionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: rootMessage(err)})
	case errors.Is(err, domain.ErrEmptyDraft):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: domain.ErrEmptyDraft.Error()})
	case errors.Is(err, publish.ErrMissingIntakeID):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: publish.ErrMissingIntakeID.Error()})
	case errors.Is(err, intake.ErrNoGenerator):
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: intake.ErrNoGenerator.Error()})
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		s.logger.Debug("request canceled", "path", r.URL.Path)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func rootMessage(err error) string {
	for _, sentinel := range []error{domain.ErrIntakeNotFound, domain.ErrNotPublished, domain.ErrSectionNotFound} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"panic", fmt.Sprint(rec),
				)
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
