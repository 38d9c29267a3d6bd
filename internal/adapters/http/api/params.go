package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/internal/domain/pie"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/internal/domain/window"
)

const maxRings = 20

// parseParams overlays the query values on defaults. Unknown window or view
// names fall back to the defaults; malformed numbers are rejected.
func parseParams(q url.Values, defaults chart.Params) (chart.Params, error) {
	p := defaults
	if v := q.Get("window"); v != "" {
		if w, ok := window.Parse(v); ok {
			p.Window = w
		}
	}
	if v := q.Get("view"); v != "" {
		if view, ok := pie.ParseView(v); ok {
			p.View = view
		}
	}
	c, err := parseCanvas(q, defaults.Canvas)
	if err != nil {
		return chart.Params{}, err
	}
	p.Canvas = c
	if v := q.Get("rings"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 || n > maxRings {
			return chart.Params{}, fmt.Errorf("%w: rings must be an integer between 1 and %d", ErrBadRequest, maxRings)
		}
		p.RingCount = n
	}
	return p, nil
}

func parseCanvas(q url.Values, c series.Canvas) (series.Canvas, error) {
	fields := []struct {
		name string
		dst  *float64
	}{
		{"width", &c.Width},
		{"height", &c.Height},
		{"padding", &c.Padding},
	}
	for _, f := range fields {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return series.Canvas{}, fmt.Errorf("%w: %s must be a number", ErrBadRequest, f.name)
		}
		*f.dst = n
	}
	if err := c.Validate(); err != nil {
		return series.Canvas{}, err
	}
	return c, nil
}
