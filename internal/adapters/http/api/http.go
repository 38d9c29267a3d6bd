// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/pkg/logger"
	"github.com/okian/learnboard/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SignIn(ctx context.Context, identifier, password string) (platform.Session, error)
	Dashboard(ctx context.Context, token string, p chart.Params) (chart.Models, error)
	XPWindows(ctx context.Context, token string, c series.Canvas) ([]chart.XPModel, error)

	// Defaults returns the render parameters applied to omitted query values.
	Defaults() chart.Params
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	signInHandler    *SignInHandler
	dashboardHandler *DashboardHandler
	xpHandler        *XPHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, log),
		signInHandler:    NewSignInHandler(deps, log),
		dashboardHandler: NewDashboardHandler(deps, log),
		xpHandler:        NewXPHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/signin", MetricsMiddleware(RequestID(s.signInHandler.HandleSignIn), "signin"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(RequestID(s.dashboardHandler.HandleDashboard), "dashboard"))
	mux.HandleFunc("/xp/windows", MetricsMiddleware(RequestID(s.xpHandler.HandleWindows), "xp_windows"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// responder writes JSON bodies for a handler. A body that cannot be encoded
// is logged and replaced with a 500 before anything reaches the client.
type responder struct {
	log logger.Logger
}

func (rs responder) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		rs.log.Error(r.Context(), "encode response failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
		metrics.RecordErrorByType("encode_failure", "high")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: codeInternal, Message: "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (rs responder) writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	rs.writeJSON(w, r, status, errorResponse{Code: code, Message: msg})
}

// fail maps err onto a status and error code and writes it.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	rs.writeError(w, r, status, code, err)
}
