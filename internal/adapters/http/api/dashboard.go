package api

import (
	"errors"
	"net/http"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/pkg/logger"
)

type chartErrorBody struct {
	Chart   string `json:"chart"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dashboardResponse struct {
	chart.Models
	Errors []chartErrorBody `json:"errors"`
}

// DashboardHandler renders every chart for the bearer of the token.
type DashboardHandler struct {
	responder
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{responder: responder{log: log.Named("dashboard")}, deps: deps}
}

// HandleDashboard handles GET /dashboard requests. Charts that fail are
// reported in the errors list next to the ones that rendered; only when
// nothing rendered does the request fail as a whole.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	token, err := platform.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := parseParams(r.URL.Query(), h.deps.Defaults())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.deps.Dashboard(r.Context(), token, p)
	if err != nil && (m.XP == nil && m.Projects == nil && m.Skills == nil) {
		h.log.Warn(r.Context(), "dashboard failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, dashboardResponse{Models: m, Errors: chartErrors(err)})
}

// chartErrors flattens a joined error into one entry per failed chart.
func chartErrors(err error) []chartErrorBody {
	out := []chartErrorBody{}
	if err == nil {
		return out
	}
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	for _, e := range errs {
		body := chartErrorBody{Message: e.Error()}
		var ce *chart.ChartError
		if errors.As(e, &ce) {
			body.Chart = ce.Chart
			body.Message = ce.Err.Error()
		}
		_, body.Code = classify(e)
		out = append(out, body)
	}
	return out
}
