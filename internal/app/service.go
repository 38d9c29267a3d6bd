// Package service provides the business service behind the HTTP API: it
// signs users in against the platform, fetches their records and turns
// them into dashboard render models.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/learnboard/internal/adapters/platform"
	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/internal/domain/pie"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/internal/domain/window"
	"github.com/okian/learnboard/pkg/logger"
	"github.com/okian/learnboard/pkg/metrics"
)

// Render pass outcomes recorded in metrics.
const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// Platform is the upstream the service reads from.
type Platform interface {
	SignIn(ctx context.Context, identifier, password string) (platform.Session, error)
	Fetch(ctx context.Context, token string) (model.Input, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	platform Platform
	defaults chart.Params
	now      func() time.Time
	started  time.Time

	signIns    atomic.Int64
	dashboards atomic.Int64
	failures   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPlatform sets the upstream client.
func WithPlatform(p Platform) Option {
	return func(s *Service) {
		if p != nil {
			s.platform = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultWindow sets the XP window used when a request names none.
func WithDefaultWindow(w window.Window) Option {
	return func(s *Service) {
		if _, ok := window.Parse(string(w)); ok {
			s.defaults.Window = w
		}
	}
}

// WithCanvas sets the default XP canvas. Invalid canvases are ignored.
func WithCanvas(c series.Canvas) Option {
	return func(s *Service) {
		if c.Validate() == nil {
			s.defaults.Canvas = c
		}
	}
}

// WithPieRadius sizes the pass/fail chart and centers it in its box.
func WithPieRadius(r float64) Option {
	return func(s *Service) {
		if r > 0 && !math.IsInf(r, 1) {
			const margin = 20
			s.defaults.Pie = pie.Geometry{CenterX: r + margin, CenterY: r + margin, Radius: r}
		}
	}
}

// WithRingCount sets the number of radar rings.
func WithRingCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaults.RingCount = n
		}
	}
}

// WithClock sets the time source used as the render reference.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaults: chart.DefaultParams(time.Time{}),
		now:      time.Now,
		platform: platform.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = s.now()
	return s
}

// Defaults returns the render parameters used when a request omits them.
// Reference is left zero; it is stamped at render time.
func (s *Service) Defaults() chart.Params {
	return s.defaults
}

// SignIn exchanges credentials for a platform session.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (platform.Session, error) {
	sess, err := s.platform.SignIn(ctx, identifier, password)
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn(ctx, "sign-in failed", logger.String("identifier", identifier), logger.Error(err))
		return platform.Session{}, err
	}
	s.signIns.Add(1)
	return sess, nil
}

// Authorize checks the token locally before any upstream call.
func (s *Service) Authorize(token string) (platform.TokenInfo, error) {
	return platform.ParseToken(token, s.now())
}

// Dashboard fetches the user's records and renders every chart with p.
// Chart failures are returned joined next to the partial models; fetch
// failures return no models at all.
func (s *Service) Dashboard(ctx context.Context, token string, p chart.Params) (chart.Models, error) {
	info, err := s.Authorize(token)
	if err != nil {
		s.failures.Add(1)
		return chart.Models{}, err
	}
	in, err := s.platform.Fetch(ctx, token)
	if err != nil {
		s.failures.Add(1)
		s.logger.Error(ctx, "fetch failed", logger.String("user_id", info.UserID), logger.Error(err))
		return chart.Models{}, err
	}

	p.Reference = s.now()
	start := time.Now()
	m, err := chart.Aggregate(in, p)
	s.record(m, time.Since(start))
	s.dashboards.Add(1)
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn(ctx, "dashboard rendered with chart errors",
			logger.String("user_id", info.UserID),
			logger.Error(err),
		)
	}
	return m, err
}

// XPWindows renders the XP curve for every known window concurrently from
// a single fetch. Results are ordered narrowest window first.
func (s *Service) XPWindows(ctx context.Context, token string, c series.Canvas) ([]chart.XPModel, error) {
	if _, err := s.Authorize(token); err != nil {
		s.failures.Add(1)
		return nil, err
	}
	in, err := s.platform.Fetch(ctx, token)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}
	if in.XPErr != nil {
		s.failures.Add(1)
		metrics.RecordRenderPass(chart.NameXP, outcomeError, 0)
		return nil, &chart.ChartError{Chart: chart.NameXP, Err: in.XPErr}
	}

	ref := s.now()
	windows := window.All()
	out := make([]chart.XPModel, len(windows))
	var g errgroup.Group
	for i, w := range windows {
		g.Go(func() error {
			start := time.Now()
			xp, err := chart.XP(in.XP, w, c, ref)
			if err != nil {
				metrics.RecordRenderPass(chart.NameXP, outcomeError, ms(time.Since(start)))
				return &chart.ChartError{Chart: fmt.Sprintf("%s/%s", chart.NameXP, w), Err: err}
			}
			metrics.RecordRenderPass(chart.NameXP, outcomeFor(xp.Empty()), ms(time.Since(start)))
			metrics.ObserveXPPoints(len(xp.Points))
			out[i] = xp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.failures.Add(1)
		return nil, err
	}
	return out, nil
}

// record reports one render pass per chart.
func (s *Service) record(m chart.Models, elapsed time.Duration) {
	latency := ms(elapsed)
	switch {
	case m.XP == nil:
		metrics.RecordRenderPass(chart.NameXP, outcomeError, latency)
	default:
		metrics.RecordRenderPass(chart.NameXP, outcomeFor(m.XP.Empty()), latency)
		metrics.ObserveXPPoints(len(m.XP.Points))
	}
	switch {
	case m.Projects == nil:
		metrics.RecordRenderPass(chart.NameProjects, outcomeError, latency)
	default:
		metrics.RecordRenderPass(chart.NameProjects, outcomeFor(m.Projects.Total == 0), latency)
	}
	switch {
	case m.Skills == nil:
		metrics.RecordRenderPass(chart.NameSkills, outcomeError, latency)
	default:
		metrics.RecordRenderPass(chart.NameSkills, outcomeFor(m.Skills.Empty()), latency)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"uptimeSeconds": int64(s.now().Sub(s.started).Seconds()),
		"signIns":       s.signIns.Load(),
		"dashboards":    s.dashboards.Load(),
		"failures":      s.failures.Load(),
		"defaultWindow": string(s.defaults.Window),
		"ringCount":     s.defaults.RingCount,
		"canvasWidth":   s.defaults.Canvas.Width,
		"canvasHeight":  s.defaults.Canvas.Height,
		"canvasPadding": s.defaults.Canvas.Padding,
	}
}

// AllChartsFailed reports whether err carries a failure for every chart.
func AllChartsFailed(m chart.Models, err error) bool {
	return err != nil && m.XP == nil && m.Projects == nil && m.Skills == nil
}

// IsMalformed reports whether err stems from an unusable upstream record.
func IsMalformed(err error) bool {
	return errors.Is(err, model.ErrMalformedRecord)
}

func outcomeFor(empty bool) string {
	if empty {
		return outcomeEmpty
	}
	return outcomeOK
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
