package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/learnboard/pkg/logger"
)

const maxSignInBody = 4 << 10

type signInRequest struct {
	Identifier string `json:"identifier" validate:"required,max=256"`
	Password   string `json:"password" validate:"required,max=256"`
}

type signInResponse struct {
	Token     string     `json:"token"`
	UserID    string     `json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SignInHandler exchanges credentials for a platform token.
type SignInHandler struct {
	responder
	deps Dependencies
}

// NewSignInHandler creates a new sign-in handler.
func NewSignInHandler(deps Dependencies, log logger.Logger) *SignInHandler {
	return &SignInHandler{responder: responder{log: log.Named("signin")}, deps: deps}
}

// HandleSignIn handles POST /signin requests.
func (h *SignInHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req signInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSignInBody)).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: identifier and password are required", ErrBadRequest))
		return
	}

	sess, err := h.deps.SignIn(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.log.Warn(r.Context(), "sign-in rejected",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		h.fail(w, r, err)
		return
	}

	resp := signInResponse{Token: sess.Token, UserID: sess.UserID}
	if !sess.ExpiresAt.IsZero() {
		exp := sess.ExpiresAt
		resp.ExpiresAt = &exp
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
