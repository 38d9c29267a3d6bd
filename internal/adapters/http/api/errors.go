package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/internal/domain/series"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error codes carried in the JSON error body.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeTokenExpired       = "token_expired"
	codeInvalidCredentials = "invalid_credentials"
	codeNotFound           = "not_found"
	codeMalformedRecord    = "malformed_record"
	codeUpstream           = "upstream_error"
	codeUpstreamTimeout    = "upstream_timeout"
	codeInternal           = "internal_error"
)

// classify maps an error from the service or platform onto an HTTP status
// and error code. Order matters: auth errors wrap upstream statuses.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, series.ErrInvalidCanvas):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, platform.ErrTokenExpired):
		return http.StatusUnauthorized, codeTokenExpired
	case errors.Is(err, platform.ErrSignIn):
		return http.StatusUnauthorized, codeInvalidCredentials
	case platform.IsAuthError(err):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, model.ErrMalformedRecord):
		return http.StatusUnprocessableEntity, codeMalformedRecord
	case errors.Is(err, platform.ErrUserNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeUpstreamTimeout
	case errors.Is(err, platform.ErrUpstreamStatus),
		errors.Is(err, platform.ErrGraphQL),
		errors.Is(err, platform.ErrResponseTooLarge):
		return http.StatusBadGateway, codeUpstream
	default:
		var ue *platform.UpstreamError
		if errors.As(err, &ue) {
			return http.StatusBadGateway, codeUpstream
		}
		return http.StatusInternalServerError, codeInternal
	}
}
