package api

import (
	"net/http"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/pkg/logger"
)

type xpWindowsResponse struct {
	Windows []chart.XPModel `json:"windows"`
}

// XPHandler serves the XP curve for every window at once.
type XPHandler struct {
	responder
	deps Dependencies
}

// NewXPHandler creates a new XP windows handler.
func NewXPHandler(deps Dependencies, log logger.Logger) *XPHandler {
	return &XPHandler{responder: responder{log: log.Named("xp")}, deps: deps}
}

// HandleWindows handles GET /xp/windows requests.
func (h *XPHandler) HandleWindows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	token, err := platform.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := parseCanvas(r.URL.Query(), h.deps.Defaults().Canvas)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.deps.XPWindows(r.Context(), token, c)
	if err != nil {
		h.log.Warn(r.Context(), "xp windows failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, xpWindowsResponse{Windows: out})
}
