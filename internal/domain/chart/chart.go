// Package chart turns one resolved record set into the three dashboard
// render models plus a profile summary. It performs no I/O and reads no
// clock; the reference time is always supplied by the caller.
package chart

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/okian/learnboard/internal/domain/dedupe"
	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/internal/domain/pie"
	"github.com/okian/learnboard/internal/domain/radar"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/internal/domain/window"
)

// Chart names used in ChartError and metrics.
const (
	NameXP       = "xp"
	NameProjects = "projects"
	NameSkills   = "skills"
)

// Record kinds reported by MalformedRecordError.
const (
	KindTransaction = "transaction"
	KindProgress    = "progress"
	KindSkill       = "skill"
)

const defaultDisplayName = "User"

// Params carries the selections owned by the UI.
type Params struct {
	Window    window.Window
	View      pie.View
	Canvas    series.Canvas
	Pie       pie.Geometry
	RingCount int
	Reference time.Time
}

// DefaultParams returns the selections used when the caller expresses none.
func DefaultParams(reference time.Time) Params {
	return Params{
		Window:    window.Default,
		View:      pie.ViewAll,
		Canvas:    series.Canvas{Width: 600, Height: 300, Padding: 40},
		Pie:       pie.DefaultGeometry,
		RingCount: radar.DefaultRings,
		Reference: reference,
	}
}

// ProfileSummary is the header block of the dashboard.
type ProfileSummary struct {
	DisplayName string    `json:"display_name"`
	FullName    string    `json:"full_name"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	Campus      string    `json:"campus"`
	MemberSince time.Time `json:"member_since"`
	TotalXP     float64   `json:"total_xp"`
	AuditRatio  float64   `json:"audit_ratio"`
}

// XPModel is the XP curve for one window.
type XPModel struct {
	Window window.Window `json:"window"`
	Label  string        `json:"label"`
	series.Series
}

// ProjectModel is the pass/fail chart plus the results listed for the view.
type ProjectModel struct {
	Slices  []model.ArcSlice      `json:"slices"`
	Passed  int                   `json:"passed"`
	Failed  int                   `json:"failed"`
	Total   int                   `json:"total"`
	View    pie.View              `json:"view"`
	Results []model.ProjectResult `json:"results"`
}

// Models is the output of one render pass. A nil chart model means that
// chart failed; its error is part of the error returned by Aggregate.
type Models struct {
	Profile  *ProfileSummary `json:"profile"`
	XP       *XPModel        `json:"xp"`
	Projects *ProjectModel   `json:"projects"`
	Skills   *radar.Model    `json:"skills"`
}

// Aggregate computes every chart from in. Each chart fails independently:
// the returned error joins one *ChartError per failed chart, and the Models
// still carry the charts that succeeded. A family decode error recorded on
// in fails only the chart built from that family. The input is never
// modified.
func Aggregate(in model.Input, p Params) (Models, error) {
	if p.Reference.IsZero() {
		return Models{}, ErrMissingReference
	}

	profile := Summarize(in.Profile, in.XP)
	out := Models{Profile: &profile}
	var errs []error

	if in.XPErr != nil {
		errs = append(errs, &ChartError{Chart: NameXP, Err: in.XPErr})
	} else if xp, err := XP(in.XP, p.Window, p.Canvas, p.Reference); err != nil {
		errs = append(errs, &ChartError{Chart: NameXP, Err: err})
	} else {
		out.XP = &xp
	}

	if in.ProjectsErr != nil {
		errs = append(errs, &ChartError{Chart: NameProjects, Err: in.ProjectsErr})
	} else if pm, err := Projects(in.Projects, p.View, p.Pie); err != nil {
		errs = append(errs, &ChartError{Chart: NameProjects, Err: err})
	} else {
		out.Projects = &pm
	}

	if in.SkillsErr != nil {
		errs = append(errs, &ChartError{Chart: NameSkills, Err: in.SkillsErr})
	} else if sm, err := Skills(in.Skills, p.RingCount); err != nil {
		errs = append(errs, &ChartError{Chart: NameSkills, Err: err})
	} else {
		out.Skills = &sm
	}

	return out, errors.Join(errs...)
}

// XP validates the history, orders a copy by time, keeps the trailing
// window and projects it onto the canvas.
func XP(history []model.TimedAmount, w window.Window, c series.Canvas, reference time.Time) (XPModel, error) {
	if reference.IsZero() {
		return XPModel{}, ErrMissingReference
	}
	if err := model.ValidateTimed(KindTransaction, history); err != nil {
		return XPModel{}, err
	}
	if _, ok := window.Parse(string(w)); !ok {
		w = window.Default
	}
	s, err := series.Project(window.Filter(model.SortByTime(history), w, reference), c)
	if err != nil {
		return XPModel{}, err
	}
	return XPModel{Window: w, Label: w.Label(), Series: s}, nil
}

// Projects tallies results into pie slices and selects the listed subset.
func Projects(results []model.ProjectResult, v pie.View, g pie.Geometry) (ProjectModel, error) {
	if err := model.ValidateProjects(results); err != nil {
		return ProjectModel{}, err
	}
	pass, fail := pie.Tally(results)
	slices, err := pie.ComputeSlices(pass, fail, pie.WithGeometry(g.CenterX, g.CenterY, g.Radius))
	if err != nil {
		return ProjectModel{}, err
	}
	if _, ok := pie.ParseView(string(v)); !ok {
		v = pie.ViewAll
	}
	return ProjectModel{
		Slices:  slices,
		Passed:  pass,
		Failed:  fail,
		Total:   pass + fail,
		View:    v,
		Results: pie.SelectResults(results, v),
	}, nil
}

// Skills keeps the latest score per skill and lays them out on the radar.
func Skills(tx []model.SkillTransaction, ringCount int) (radar.Model, error) {
	if err := model.ValidateSkills(tx); err != nil {
		return radar.Model{}, err
	}
	return radar.Project(dedupe.LatestSkills(tx), ringCount), nil
}

// Summarize builds the profile header. TotalXP covers the whole history,
// not only the selected window.
func Summarize(p model.UserProfile, history []model.TimedAmount) ProfileSummary {
	name := strings.TrimSpace(p.FirstName)
	if name == "" {
		name = defaultDisplayName
	}
	var total float64
	for _, e := range history {
		if e.Amount > 0 && !math.IsInf(e.Amount, 1) {
			total += e.Amount
		}
	}
	return ProfileSummary{
		DisplayName: name,
		FullName:    strings.TrimSpace(p.FirstName + " " + p.LastName),
		Login:       p.Login,
		Email:       p.Email,
		Campus:      p.Campus,
		MemberSince: p.CreatedAt,
		TotalXP:     total,
		AuditRatio:  math.Round(p.AuditRatio*10) / 10,
	}
}
