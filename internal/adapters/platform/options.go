package platform

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/learnboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the platform origin, e.g. https://learn.reboot01.com.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSignInPath sets the path of the sign-in endpoint.
func WithSignInPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.signInPath = p
		}
	}
}

// WithGraphQLPath sets the path of the GraphQL endpoint.
func WithGraphQLPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.graphQLPath = p
		}
	}
}

// WithEventPath sets the event path XP transactions are scoped to.
func WithEventPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.eventPath = p
		}
	}
}

// WithSkillTypes sets the transaction types fetched as skill scores.
func WithSkillTypes(types []string) Option {
	return func(c *Client) {
		if len(types) > 0 {
			c.skillTypes = append([]string(nil), types...)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxResponseBytes caps the size of any response body. Zero disables the cap.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxBytes = n
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
