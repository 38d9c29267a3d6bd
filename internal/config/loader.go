package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/learnboard/internal/domain/series"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "LEARNBOARD_"

// ConfigFileEnv names the variable holding an optional YAML config path.
const ConfigFileEnv = EnvPrefix + "CONFIG"

var knownWindows = map[string]bool{"1m": true, "3m": true, "6m": true, "1y": true}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LEARNBOARD_CONFIG is set
//  3. env (prefix LEARNBOARD_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// LEARNBOARD_PLATFORM_URL -> platform_url; flat keys keep their underscores.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the rest of the process relies on.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	canvas := series.Canvas{Width: c.CanvasWidth, Height: c.CanvasHeight, Padding: c.CanvasPadding}
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.PlatformURL == "":
		return invalid("platform_url must not be empty")
	case c.RequestTimeoutMS <= 0:
		return invalid("request_timeout_ms must be positive, got %d", c.RequestTimeoutMS)
	case c.MaxResponseBytes < 0:
		return invalid("max_response_bytes must not be negative, got %d", c.MaxResponseBytes)
	case !knownWindows[c.DefaultWindow]:
		return invalid("default_window %q is not one of 1m, 3m, 6m, 1y", c.DefaultWindow)
	case canvas.Validate() != nil:
		return invalid("canvas_width, canvas_height, canvas_padding: %v", canvas.Validate())
	case c.RingCount <= 0:
		return invalid("ring_count must be positive, got %d", c.RingCount)
	case !(c.PieRadius > 0) || math.IsInf(c.PieRadius, 1):
		return invalid("pie_radius must be positive, got %g", c.PieRadius)
	case len(c.SkillTypes) == 0:
		return invalid("skill_types must not be empty")
	case c.MetricsRefreshMS <= 0:
		return invalid("metrics_refresh_ms must be positive, got %d", c.MetricsRefreshMS)
	case c.MetricsPrefix != "" && !metricName.MatchString(c.MetricsPrefix):
		return invalid("metrics_prefix %q is not a valid metric name fragment", c.MetricsPrefix)
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) || strings.HasPrefix(name, "__") {
			return invalid("metrics_labels: %q is not a valid label name", name)
		}
	}
	for i, b := range c.MetricsBucketsMS {
		if math.IsNaN(b) || math.IsInf(b, 0) || (i > 0 && b <= c.MetricsBucketsMS[i-1]) {
			return invalid("metrics_buckets_ms must be finite and strictly increasing, got %v", c.MetricsBucketsMS)
		}
	}
	if u, err := url.Parse(c.PlatformURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("platform_url %q is not an absolute URL", c.PlatformURL)
	}
	return nil
}
