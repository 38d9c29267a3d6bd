// Package series projects a time-ordered numeric sequence onto a bounded
// 2D canvas and derives axis ticks for it.
package series

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/learnboard/internal/domain/model"
)

const (
	maxXTicks   = 6
	yTickCount  = 5
	xTickLayout = "Jan 2"
)

// ErrInvalidCanvas is returned when the canvas leaves no drawable area.
var ErrInvalidCanvas = errors.New("invalid canvas")

// Canvas describes the plotting surface in pixels.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// Validate reports whether the canvas has a usable drawing area.
func (c Canvas) Validate() error {
	switch {
	case !finite(c.Width) || !finite(c.Height) || !finite(c.Padding):
		return fmt.Errorf("%w: dimensions must be finite, got %gx%g padding %g", ErrInvalidCanvas, c.Width, c.Height, c.Padding)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: width and height must be positive, got %gx%g", ErrInvalidCanvas, c.Width, c.Height)
	case c.Padding < 0:
		return fmt.Errorf("%w: negative padding %g", ErrInvalidCanvas, c.Padding)
	case 2*c.Padding >= c.Width || 2*c.Padding >= c.Height:
		return fmt.Errorf("%w: padding %g leaves no room in %gx%g", ErrInvalidCanvas, c.Padding, c.Width, c.Height)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// XTick marks a point whose date is printed on the horizontal axis.
type XTick struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// YTick is one labelled value on the vertical axis.
type YTick struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
}

// Series is the render model of an XP curve.
type Series struct {
	Canvas      Canvas            `json:"canvas"`
	Points      []model.PlotPoint `json:"points"`
	XTicks      []XTick           `json:"x_ticks"`
	YTicks      []YTick           `json:"y_ticks"`
	MaxAmount   float64           `json:"max_amount"`
	TotalAmount float64           `json:"total_amount"`
	LastAmount  float64           `json:"last_amount"`
}

// Empty reports whether there is nothing to draw.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Project maps events onto the canvas. Events must already be filtered and
// ordered; Project does not re-sort. An empty input yields an empty Series.
func Project(events []model.TimedAmount, c Canvas) (Series, error) {
	if err := c.Validate(); err != nil {
		return Series{}, err
	}

	s := Series{
		Canvas: c,
		Points: make([]model.PlotPoint, 0, len(events)),
		XTicks: []XTick{},
		YTicks: []YTick{},
	}
	n := len(events)
	if n == 0 {
		return s, nil
	}

	for _, e := range events {
		s.MaxAmount = math.Max(s.MaxAmount, e.Amount)
		s.TotalAmount += e.Amount
	}
	s.LastAmount = events[n-1].Amount

	innerW := c.Width - 2*c.Padding
	for i, e := range events {
		x := c.Padding
		if n > 1 {
			x = c.Padding + float64(i)*innerW/float64(n-1)
		}
		s.Points = append(s.Points, model.PlotPoint{X: x, Y: yFor(e.Amount, s.MaxAmount, c), SourceIndex: i})
	}

	step := int(math.Ceil(float64(n) / maxXTicks))
	for i := 0; i < n; i += step {
		s.XTicks = append(s.XTicks, XTick{
			Index: i,
			X:     s.Points[i].X,
			Label: events[i].Timestamp.Format(xTickLayout),
		})
	}

	for j := 0; j < yTickCount; j++ {
		v := s.MaxAmount * float64(j) / (yTickCount - 1)
		s.YTicks = append(s.YTicks, YTick{Value: v, Y: yFor(v, s.MaxAmount, c)})
	}
	return s, nil
}

// yFor places amount vertically; a zero maximum pins everything to the baseline.
func yFor(amount, maxAmount float64, c Canvas) float64 {
	base := c.Height - c.Padding
	if maxAmount == 0 {
		return base
	}
	return base - (amount/maxAmount)*(c.Height-2*c.Padding)
}
