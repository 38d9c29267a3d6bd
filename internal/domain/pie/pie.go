// Package pie turns a pass/fail split into arc geometry for a circular chart.
package pie

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/learnboard/internal/domain/model"
)

// Slice labels.
const (
	LabelPass = "Pass"
	LabelFail = "Fail"
)

const (
	fullCircle = 360.0
	halfCircle = 180.0
	precision  = 1e4
)

// ErrNegativeCount is returned when a pass or fail count is below zero.
var ErrNegativeCount = errors.New("negative slice count")

// Geometry positions the circle in the target coordinate space.
type Geometry struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
}

// DefaultGeometry is a 200x200 box with a little breathing room.
var DefaultGeometry = Geometry{CenterX: 100, CenterY: 100, Radius: 80}

// Option configures ComputeSlices.
type Option func(*Geometry)

// WithGeometry sets the circle center and radius. Non-positive radii are ignored.
func WithGeometry(cx, cy, r float64) Option {
	return func(g *Geometry) {
		if r > 0 {
			*g = Geometry{CenterX: cx, CenterY: cy, Radius: r}
		}
	}
}

// ComputeSlices converts pass and fail counts into at most two arc slices.
// The pass slice starts at 0° (up) and runs clockwise. A zero total yields
// an empty result; a zero count on one side yields one full-circle slice.
func ComputeSlices(pass, fail int, opts ...Option) ([]model.ArcSlice, error) {
	if pass < 0 || fail < 0 {
		return nil, fmt.Errorf("%w: pass=%d fail=%d", ErrNegativeCount, pass, fail)
	}
	g := DefaultGeometry
	for _, opt := range opts {
		opt(&g)
	}

	total := pass + fail
	slices := make([]model.ArcSlice, 0, 2)
	if total == 0 {
		return slices, nil
	}

	passAngle := fullCircle * float64(pass) / float64(total)
	if pass > 0 {
		slices = append(slices, slice(g, 0, passAngle, LabelPass, pass))
	}
	if fail > 0 {
		slices = append(slices, slice(g, passAngle, fullCircle, LabelFail, fail))
	}
	return slices, nil
}

func slice(g Geometry, start, end float64, label string, count int) model.ArcSlice {
	return model.ArcSlice{
		StartAngleDeg: start,
		EndAngleDeg:   end,
		PathCommand:   arcPath(g, start, end),
		Label:         label,
		Count:         count,
	}
}

// arcPath builds a closed wedge: center, start point, clockwise arc, center.
// A full circle is drawn as two half arcs because an arc whose endpoints
// coincide renders nothing.
func arcPath(g Geometry, start, end float64) string {
	r := num(g.Radius)
	var b strings.Builder
	sx, sy := point(g, start)
	fmt.Fprintf(&b, "M %s %s L %s %s", num(g.CenterX), num(g.CenterY), num(sx), num(sy))

	if end-start >= fullCircle {
		mx, my := point(g, start+halfCircle)
		fmt.Fprintf(&b, " A %s %s 0 1 1 %s %s", r, r, num(mx), num(my))
		fmt.Fprintf(&b, " A %s %s 0 1 1 %s %s", r, r, num(sx), num(sy))
	} else {
		large := 0
		if end-start > halfCircle {
			large = 1
		}
		ex, ey := point(g, end)
		fmt.Fprintf(&b, " A %s %s 0 %d 1 %s %s", r, r, large, num(ex), num(ey))
	}
	b.WriteString(" Z")
	return b.String()
}

// point converts a clock-style angle (0° up, clockwise) to coordinates.
func point(g Geometry, deg float64) (float64, float64) {
	rad := (deg - 90) * math.Pi / 180
	return g.CenterX + g.Radius*math.Cos(rad), g.CenterY + g.Radius*math.Sin(rad)
}

// num prints v with at most four decimals and no negative zero.
func num(v float64) string {
	v = math.Round(v*precision) / precision
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
