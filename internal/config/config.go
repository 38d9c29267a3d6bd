// Package config defines service configuration and its defaults.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PlatformURL is the origin of the education platform.
	PlatformURL string `koanf:"platform_url"`

	// SignInPath and GraphQLPath locate the platform endpoints under PlatformURL.
	SignInPath  string `koanf:"signin_path"`
	GraphQLPath string `koanf:"graphql_path"`

	// XPEventPath scopes XP transactions to one curriculum event.
	XPEventPath string `koanf:"xp_event_path"`

	// SkillTypes lists the transaction types drawn on the skill radar.
	SkillTypes []string `koanf:"skill_types"`

	// RequestTimeoutMS bounds each upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxResponseBytes caps upstream response bodies. Zero disables the cap.
	MaxResponseBytes int64 `koanf:"max_response_bytes"`

	// DefaultWindow is used when a request names no XP window.
	DefaultWindow string `koanf:"default_window"`

	// Canvas used for XP series when the request does not override it.
	CanvasWidth   float64 `koanf:"canvas_width"`
	CanvasHeight  float64 `koanf:"canvas_height"`
	CanvasPadding float64 `koanf:"canvas_padding"`

	// RingCount is the number of radar grid rings.
	RingCount int `koanf:"ring_count"`

	// PieRadius sizes the pass/fail chart; its center sits at (radius+20, radius+20).
	PieRadius float64 `koanf:"pie_radius"`

	// MetricsEnabled turns recording of the render and upstream counters on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsPrefix is inserted between the subsystem and each metric name.
	MetricsPrefix string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBucketsMS overrides the latency histogram buckets, in milliseconds.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`

	// MetricsRefreshMS is the period of the system gauge updater.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		PlatformURL:      "https://learn.reboot01.com",
		SignInPath:       "/api/auth/signin",
		GraphQLPath:      "/api/graphql-engine/v1/graphql",
		XPEventPath:      "/bahrain/bh-module",
		SkillTypes:       []string{"skill_go", "skill_js", "skill_html", "skill_css", "skill_unix", "skill_docker", "skill_sql", "skill_technologies"},
		RequestTimeoutMS: 10_000,
		MaxResponseBytes: 8 << 20,
		DefaultWindow:    "6m",
		CanvasWidth:      600,
		CanvasHeight:     300,
		CanvasPadding:    40,
		RingCount:        5,
		PieRadius:        80,
		MetricsEnabled:   true,
		MetricsRefreshMS: 10_000,
	}
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
