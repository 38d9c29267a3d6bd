package platform

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the platform client.
var (
	ErrSignIn           = errors.New("sign-in rejected")
	ErrUnauthorized     = errors.New("unauthorized: invalid or expired token")
	ErrUpstreamStatus   = errors.New("unexpected upstream status")
	ErrGraphQL          = errors.New("graphql error")
	ErrUserNotFound     = errors.New("user not found")
	ErrResponseTooLarge = errors.New("response body too large")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrMissingToken     = errors.New("missing token")
)

// UpstreamError describes a failed exchange with the platform.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %v (status %d): %s", e.Operation, e.Err, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %v (status %d)", e.Operation, e.Err, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s: %v: %s", e.Operation, e.Err, e.Message)
	default:
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
