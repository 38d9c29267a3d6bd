// Package window selects the trailing slice of a time-ordered event sequence
// that falls inside a named time window.
package window

import (
	"strings"
	"time"

	"github.com/okian/learnboard/internal/domain/model"
)

// Window names a trailing time range.
type Window string

// Known windows, narrowest first.
const (
	OneMonth    Window = "1m"
	ThreeMonths Window = "3m"
	SixMonths   Window = "6m"
	OneYear     Window = "1y"
)

// Default is used whenever a window is missing or unknown.
const Default = SixMonths

const day = 24 * time.Hour

var days = map[Window]int{
	OneMonth:    30,
	ThreeMonths: 90,
	SixMonths:   180,
	OneYear:     365,
}

var labels = map[Window]string{
	OneMonth:    "last month",
	ThreeMonths: "last 3 months",
	SixMonths:   "last 6 months",
	OneYear:     "last year",
}

// All lists the known windows from narrowest to widest.
func All() []Window {
	return []Window{OneMonth, ThreeMonths, SixMonths, OneYear}
}

// Parse normalizes s and reports whether it names a known window.
// Unknown input yields Default and false.
func Parse(s string) (Window, bool) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := days[w]; ok {
		return w, true
	}
	return Default, false
}

// Days returns the length of w in days. Unknown windows count as 180.
func (w Window) Days() int {
	if d, ok := days[w]; ok {
		return d
	}
	return days[Default]
}

// Label returns the human readable name shown next to the selector.
func (w Window) Label() string {
	if l, ok := labels[w]; ok {
		return l
	}
	return labels[Default]
}

// Cutoff returns the earliest instant included in w relative to reference.
func (w Window) Cutoff(reference time.Time) time.Time {
	return reference.Add(-time.Duration(w.Days()) * day)
}

// Filter returns the events with Timestamp >= cutoff, in input order.
// The input is never modified; the result is always a fresh, non-nil slice.
func Filter(events []model.TimedAmount, w Window, reference time.Time) []model.TimedAmount {
	cutoff := w.Cutoff(reference)
	out := make([]model.TimedAmount, 0, len(events))
	for _, e := range events {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
