package model

// PlotPoint is a pixel-space position derived from a TimedAmount.
type PlotPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	SourceIndex int     `json:"source_index"`
}

// ArcSlice is one wedge of a circular chart.
type ArcSlice struct {
	StartAngleDeg float64 `json:"start_angle_deg"`
	EndAngleDeg   float64 `json:"end_angle_deg"`
	PathCommand   string  `json:"path"`
	Label         string  `json:"label"`
	Count         int     `json:"count"`
}

// RadarVertex is a point of a radar chart in unit space: the center is the
// origin, the outer ring has radius 1 and y grows downward.
type RadarVertex struct {
	AngleRad       float64 `json:"angle_rad"`
	RadiusFraction float64 `json:"radius_fraction"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
}
