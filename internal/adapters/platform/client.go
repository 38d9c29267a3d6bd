// Package platform talks to the remote education platform: sign-in,
// GraphQL queries and decoding of the returned records.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/pkg/logger"
	"github.com/okian/learnboard/pkg/metrics"
)

// Defaults matching the public platform.
const (
	DefaultBaseURL          = "https://learn.reboot01.com"
	DefaultSignInPath       = "/api/auth/signin"
	DefaultGraphQLPath      = "/api/graphql-engine/v1/graphql"
	DefaultEventPath        = "/bahrain/bh-module"
	DefaultTimeout          = 10 * time.Second
	DefaultMaxResponseBytes = 8 << 20
)

const opSignIn = "signin"

// Client is a platform API client. It is safe for concurrent use.
type Client struct {
	http        *http.Client
	baseURL     string
	signInPath  string
	graphQLPath string
	eventPath   string
	skillTypes  []string
	maxBytes    int64
	logger      logger.Logger
	now         func() time.Time
}

// New constructs a Client with defaults for the public platform.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		baseURL:     DefaultBaseURL,
		signInPath:  DefaultSignInPath,
		graphQLPath: DefaultGraphQLPath,
		eventPath:   DefaultEventPath,
		skillTypes:  DefaultSkillTypes,
		maxBytes:    DefaultMaxResponseBytes,
		logger:      logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignIn exchanges credentials for a bearer token using HTTP Basic auth.
func (c *Client) SignIn(ctx context.Context, identifier, password string) (Session, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.signInPath, http.NoBody)
	if err != nil {
		return Session{}, fmt.Errorf("build sign-in request: %w", err)
	}
	req.SetBasicAuth(identifier, password)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		c.record(opSignIn, "error", start)
		metrics.RecordSignIn("error")
		return Session{}, &UpstreamError{Operation: opSignIn, Err: err}
	}
	if status < 200 || status > 299 {
		c.record(opSignIn, "rejected", start)
		metrics.RecordSignIn("rejected")
		return Session{}, &UpstreamError{Operation: opSignIn, StatusCode: status, Message: upstreamMessage(body), Err: ErrSignIn}
	}

	var token string
	if err := json.Unmarshal(body, &token); err != nil {
		token = strings.TrimSpace(string(body))
	}
	info, err := ParseToken(token, c.now())
	if err != nil {
		c.record(opSignIn, "error", start)
		metrics.RecordSignIn("error")
		return Session{}, &UpstreamError{Operation: opSignIn, Err: fmt.Errorf("%w: %w", ErrSignIn, err)}
	}

	c.record(opSignIn, "ok", start)
	metrics.RecordSignIn("ok")
	c.logger.Info(ctx, "signed in", logger.String("user_id", info.UserID))
	return Session{Token: token, TokenInfo: info}, nil
}

// Fetch retrieves the user's profile, XP history, project results and skill
// transactions. Both queries run concurrently; the first failure cancels the
// other. A malformed row rejects only its own record family, reported through
// the family's Err field on the returned Input.
func (c *Client) Fetch(ctx context.Context, token string) (model.Input, error) {
	var (
		user   UserDataPayload
		skills SkillScoresPayload
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.query(gctx, token, Request{
			OperationName: OpUserData,
			Query:         userDataQuery,
			Variables:     map[string]any{"path": c.eventPath},
		}, &user)
	})
	g.Go(func() error {
		return c.query(gctx, token, Request{
			OperationName: OpSkillScores,
			Query:         skillScoresQuery,
			Variables:     map[string]any{"types": c.skillTypes},
		}, &skills)
	})
	if err := g.Wait(); err != nil {
		return model.Input{}, err
	}

	profile, err := decodeUser(user.User)
	if err != nil {
		return model.Input{}, err
	}
	in := model.Input{Profile: profile}
	in.XP, in.XPErr = decodeXP(user.Transaction)
	in.Projects, in.ProjectsErr = decodeProgress(user.Progress)
	in.Skills, in.SkillsErr = decodeSkills(skills.Transaction)
	for _, f := range []struct {
		name string
		err  error
	}{{"xp", in.XPErr}, {"projects", in.ProjectsErr}, {"skills", in.SkillsErr}} {
		if f.err != nil {
			c.logger.Warn(ctx, "record family rejected", logger.String("family", f.name), logger.Error(f.err))
			metrics.RecordErrorByType("malformed_"+f.name, "medium")
		}
	}

	c.logger.Debug(ctx, "fetched dashboard records",
		logger.Int("xp", len(in.XP)),
		logger.Int("projects", len(in.Projects)),
		logger.Int("skills", len(in.Skills)),
	)
	return in, nil
}

// query posts one GraphQL operation and decodes its data object into out.
func (c *Client) query(ctx context.Context, token string, q Request, out any) error {
	start := time.Now()
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", q.OperationName, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.graphQLPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", q.OperationName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	status, body, err := c.do(req)
	if err != nil {
		c.record(q.OperationName, "error", start)
		return &UpstreamError{Operation: q.OperationName, Err: err}
	}
	switch {
	case status == http.StatusUnauthorized:
		c.record(q.OperationName, "unauthorized", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Message: upstreamMessage(body), Err: ErrUnauthorized}
	case status < 200 || status > 299:
		c.record(q.OperationName, "error", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Message: upstreamMessage(body), Err: ErrUpstreamStatus}
	}

	var env struct {
		Data   json.RawMessage `json:"data"`
		Errors []ResponseError `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		c.record(q.OperationName, "error", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(env.Errors) > 0 {
		c.record(q.OperationName, "graphql_error", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Message: env.Errors[0].Message, Err: ErrGraphQL}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		c.record(q.OperationName, "error", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Err: fmt.Errorf("%w: empty data", ErrGraphQL)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		c.record(q.OperationName, "error", start)
		return &UpstreamError{Operation: q.OperationName, StatusCode: status, Err: fmt.Errorf("decode data: %w", err)}
	}
	c.record(q.OperationName, "ok", start)
	return nil
}

// do sends req and returns the status and a size-limited body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := readAllWithLimit(resp.Body, c.maxBytes)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) record(op, outcome string, start time.Time) {
	metrics.RecordUpstreamRequest(op, outcome, float64(time.Since(start).Milliseconds()))
}

// upstreamMessage pulls a human readable reason out of an error body.
func upstreamMessage(body []byte) string {
	var msg struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil {
		if msg.Message != "" {
			return msg.Message
		}
		if msg.Error != "" {
			return msg.Error
		}
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	const maxLen = 200
	text := strings.TrimSpace(string(body))
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// IsAuthError reports whether err means the caller must sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrMissingToken)
}
