// Package radar lays out skill scores as a polar chart in unit space.
//
// Coordinates have the origin at the chart center, radius 1 at the outer
// ring, and y growing downward so the first axis points up.
package radar

import (
	"math"
	"strings"

	"github.com/okian/learnboard/internal/domain/model"
)

// DefaultRings is the number of concentric grid rings.
const DefaultRings = 5

// FullScale is the skill amount drawn on the outer ring.
const FullScale = 100.0

const skillPrefix = "skill_"

// Spoke is one axis from the center to the outer ring.
type Spoke struct {
	Skill    string  `json:"skill"`
	Label    string  `json:"label"`
	AngleRad float64 `json:"angle_rad"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Model is the render model of the skill chart.
type Model struct {
	RingCount int                   `json:"ring_count"`
	Grid      [][]model.RadarVertex `json:"grid"`
	Axes      []Spoke               `json:"axes"`
	Polygon   []model.RadarVertex   `json:"polygon"`
}

// Empty reports whether there is nothing to draw.
func (m Model) Empty() bool {
	return len(m.Axes) == 0
}

// Label turns a skill type into axis text: "skill_go" becomes "GO".
func Label(name string) string {
	return strings.ToUpper(strings.TrimPrefix(name, skillPrefix))
}

// Project builds grid rings, spokes and the data polygon for skills in the
// given order. ringCount <= 0 selects DefaultRings. Amounts are clamped to
// [0, FullScale] before scaling. Every ring and the polygon are closed: the
// first vertex is repeated at the end.
func Project(skills []model.SkillScore, ringCount int) Model {
	if ringCount <= 0 {
		ringCount = DefaultRings
	}
	k := len(skills)
	m := Model{
		RingCount: ringCount,
		Grid:      make([][]model.RadarVertex, 0, ringCount),
		Axes:      make([]Spoke, 0, k),
		Polygon:   make([]model.RadarVertex, 0, k+1),
	}
	if k == 0 {
		return m
	}

	angles := make([]float64, k)
	for i := range angles {
		angles[i] = float64(i)*2*math.Pi/float64(k) - math.Pi/2
	}

	for r := 1; r <= ringCount; r++ {
		frac := float64(r) / float64(ringCount)
		ring := make([]model.RadarVertex, 0, k+1)
		for _, a := range angles {
			ring = append(ring, vertex(a, frac))
		}
		m.Grid = append(m.Grid, append(ring, ring[0]))
	}

	for i, s := range skills {
		x, y := polar(angles[i], 1)
		m.Axes = append(m.Axes, Spoke{Skill: s.SkillName, Label: Label(s.SkillName), AngleRad: angles[i], X: x, Y: y})
		m.Polygon = append(m.Polygon, vertex(angles[i], clamp(s.Amount/FullScale)))
	}
	m.Polygon = append(m.Polygon, m.Polygon[0])
	return m
}

func vertex(angle, frac float64) model.RadarVertex {
	x, y := polar(angle, frac)
	return model.RadarVertex{AngleRad: angle, RadiusFraction: frac, X: x, Y: y}
}

func polar(angle, r float64) (float64, float64) {
	return r * math.Cos(angle), r * math.Sin(angle)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
