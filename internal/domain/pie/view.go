package pie

import (
	"strings"

	"github.com/okian/learnboard/internal/domain/model"
)

// View selects which project results the UI lists next to the chart.
type View string

// Views.
const (
	ViewAll  View = "all"
	ViewPass View = "pass"
	ViewFail View = "fail"
)

// ParseView normalizes s; unknown values select ViewAll.
func ParseView(s string) (View, bool) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewAll, ViewPass, ViewFail:
		return v, true
	default:
		return ViewAll, false
	}
}

// Tally counts passed and failed results.
func Tally(results []model.ProjectResult) (pass, fail int) {
	for _, r := range results {
		if r.Passed() {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

// SelectResults returns the results shown for v, in input order.
func SelectResults(results []model.ProjectResult, v View) []model.ProjectResult {
	out := make([]model.ProjectResult, 0, len(results))
	for _, r := range results {
		switch {
		case v == ViewPass && !r.Passed():
		case v == ViewFail && r.Passed():
		default:
			out = append(out, r)
		}
	}
	return out
}
