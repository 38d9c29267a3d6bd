package chart_test

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/okian/learnboard/internal/domain/chart"
	"github.com/okian/learnboard/internal/domain/model"
	"github.com/okian/learnboard/internal/domain/pie"
	"github.com/okian/learnboard/internal/domain/series"
	"github.com/okian/learnboard/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func fixture() model.Input {
	return model.Input{
		Profile: model.UserProfile{
			ID: 42, Login: "jdoe", FirstName: "Jane", LastName: "Doe",
			CreatedAt: daysAgo(400), AuditRatio: 1.26,
		},
		XP: []model.TimedAmount{
			{Timestamp: daysAgo(10), Amount: 500},
			{Timestamp: daysAgo(300), Amount: 1000},
			{Timestamp: daysAgo(40), Amount: 250},
		},
		Projects: []model.ProjectResult{
			{ID: "p1", Grade: 1.0, CompletedAt: daysAgo(50)},
			{ID: "p2", Grade: 0.4, CompletedAt: daysAgo(30)},
			{ID: "p3", Grade: 1.7, CompletedAt: daysAgo(5)},
			{ID: "p4", Grade: 2.0, CompletedAt: daysAgo(3)},
		},
		Skills: []model.SkillTransaction{
			{Type: "skill_go", Amount: 60, CreatedAt: daysAgo(5)},
			{Type: "skill_go", Amount: 45, CreatedAt: daysAgo(90)},
			{Type: "skill_js", Amount: 30, CreatedAt: daysAgo(20)},
		},
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given a complete record set", t, func() {
		in := fixture()
		p := chart.DefaultParams(now)
		p.Window = window.ThreeMonths

		Convey("When aggregating", func() {
			m, err := chart.Aggregate(in, p)

			Convey("Then every chart is produced", func() {
				So(err, ShouldBeNil)
				So(m.XP, ShouldNotBeNil)
				So(m.Projects, ShouldNotBeNil)
				So(m.Skills, ShouldNotBeNil)
			})

			Convey("And the XP curve holds the window in time order", func() {
				So(m.XP.Window, ShouldEqual, window.ThreeMonths)
				So(m.XP.Label, ShouldEqual, "last 3 months")
				So(len(m.XP.Points), ShouldEqual, 2)
				So(m.XP.TotalAmount, ShouldEqual, 750)
				So(m.XP.LastAmount, ShouldEqual, 500)
			})

			Convey("And the project split counts grade >= 1 as passed", func() {
				So(m.Projects.Passed, ShouldEqual, 3)
				So(m.Projects.Failed, ShouldEqual, 1)
				So(m.Projects.Slices[0].EndAngleDeg, ShouldEqual, 270)
				So(len(m.Projects.Results), ShouldEqual, 4)
			})

			Convey("And skills are de-duplicated before projection", func() {
				So(len(m.Skills.Axes), ShouldEqual, 2)
				So(m.Skills.Axes[0].Label, ShouldEqual, "GO")
				So(m.Skills.Polygon[0].RadiusFraction, ShouldAlmostEqual, 0.6, 1e-9)
			})

			Convey("And the profile summary covers all history", func() {
				So(m.Profile.DisplayName, ShouldEqual, "Jane")
				So(m.Profile.FullName, ShouldEqual, "Jane Doe")
				So(m.Profile.TotalXP, ShouldEqual, 1750)
				So(m.Profile.AuditRatio, ShouldEqual, 1.3)
			})

			Convey("And the input is left untouched", func() {
				So(in, ShouldResemble, fixture())
			})
		})

		Convey("When aggregating twice", func() {
			a, errA := chart.Aggregate(in, p)
			b, errB := chart.Aggregate(in, p)

			Convey("Then the models are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When aggregating every window in parallel", func() {
			results := make([]chart.Models, len(window.All()))
			var wg sync.WaitGroup
			for i, w := range window.All() {
				wg.Add(1)
				go func(i int, w window.Window) {
					defer wg.Done()
					q := p
					q.Window = w
					results[i], _ = chart.Aggregate(in, q)
				}(i, w)
			}
			wg.Wait()

			Convey("Then wider windows never hold fewer points", func() {
				for i := 1; i < len(results); i++ {
					So(len(results[i].XP.Points), ShouldBeGreaterThanOrEqualTo, len(results[i-1].XP.Points))
				}
				So(len(results[3].XP.Points), ShouldEqual, 3)
			})
		})

		Convey("When the fail view is selected", func() {
			p.View = pie.ViewFail
			m, err := chart.Aggregate(in, p)

			Convey("Then only the listed subset changes", func() {
				So(err, ShouldBeNil)
				So(m.Projects.View, ShouldEqual, pie.ViewFail)
				So(len(m.Projects.Results), ShouldEqual, 1)
				So(m.Projects.Results[0].ID, ShouldEqual, "p2")
				So(len(m.Projects.Slices), ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty record set", t, func() {
		m, err := chart.Aggregate(model.Input{}, chart.DefaultParams(now))

		Convey("Then every chart is empty but present", func() {
			So(err, ShouldBeNil)
			So(m.XP.Empty(), ShouldBeTrue)
			So(len(m.Projects.Slices), ShouldEqual, 0)
			So(m.Skills.Empty(), ShouldBeTrue)
			So(m.Profile.DisplayName, ShouldEqual, "User")
		})
	})

	Convey("Given no reference time", t, func() {
		_, err := chart.Aggregate(fixture(), chart.Params{})

		Convey("Then the pass is rejected", func() {
			So(errors.Is(err, chart.ErrMissingReference), ShouldBeTrue)
		})
	})

	Convey("Given a malformed XP record", t, func() {
		in := fixture()
		in.XP[1].Timestamp = time.Time{}
		m, err := chart.Aggregate(in, chart.DefaultParams(now))

		Convey("Then only the XP chart fails", func() {
			So(err, ShouldNotBeNil)
			So(m.XP, ShouldBeNil)
			So(m.Projects, ShouldNotBeNil)
			So(m.Skills, ShouldNotBeNil)
		})

		Convey("And the error names the chart, index and field", func() {
			var ce *chart.ChartError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.Chart, ShouldEqual, chart.NameXP)

			var mr *model.MalformedRecordError
			So(errors.As(err, &mr), ShouldBeTrue)
			So(mr.Kind, ShouldEqual, chart.KindTransaction)
			So(mr.Index, ShouldEqual, 1)
			So(mr.Field, ShouldEqual, "createdAt")
			So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
		})
	})

	Convey("Given malformed projects and skills", t, func() {
		in := fixture()
		in.Projects[2].Grade = math.NaN()
		in.Skills[0].Type = ""
		m, err := chart.Aggregate(in, chart.DefaultParams(now))

		Convey("Then both failures are reported together", func() {
			So(m.XP, ShouldNotBeNil)
			So(m.Projects, ShouldBeNil)
			So(m.Skills, ShouldBeNil)
			So(err.Error(), ShouldContainSubstring, "projects chart")
			So(err.Error(), ShouldContainSubstring, "skills chart")
		})
	})

	Convey("Given an XP family rejected at decode time", t, func() {
		in := fixture()
		in.XP = nil
		in.XPErr = &model.MalformedRecordError{Kind: chart.KindTransaction, Index: 3, Field: "createdAt", Reason: "is missing"}
		m, err := chart.Aggregate(in, chart.DefaultParams(now))

		Convey("Then the decode error is attributed to the XP chart", func() {
			var ce *chart.ChartError
			So(errors.As(err, &ce), ShouldBeTrue)
			So(ce.Chart, ShouldEqual, chart.NameXP)
			var mr *model.MalformedRecordError
			So(errors.As(err, &mr), ShouldBeTrue)
			So(mr.Index, ShouldEqual, 3)
		})

		Convey("And the other charts are still computed", func() {
			So(m.XP, ShouldBeNil)
			So(m.Projects, ShouldNotBeNil)
			So(m.Skills, ShouldNotBeNil)
			So(err.Error(), ShouldNotContainSubstring, "projects chart")
		})
	})

	Convey("Given a skill family rejected at decode time", t, func() {
		in := fixture()
		in.Skills = nil
		in.SkillsErr = &model.MalformedRecordError{Kind: "skill", Index: 0, Field: "amount", Reason: "is missing"}
		m, err := chart.Aggregate(in, chart.DefaultParams(now))

		Convey("Then only the skills chart is missing", func() {
			So(m.XP, ShouldNotBeNil)
			So(m.Projects, ShouldNotBeNil)
			So(m.Skills, ShouldBeNil)
			So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
		})
	})

	Convey("Given a canvas with no drawable area", t, func() {
		p := chart.DefaultParams(now)
		p.Canvas = series.Canvas{Width: 50, Height: 50, Padding: 30}
		_, err := chart.Aggregate(fixture(), p)

		Convey("Then the XP chart reports the canvas error", func() {
			So(errors.Is(err, series.ErrInvalidCanvas), ShouldBeTrue)
		})
	})
}

func TestXPUnsortedHistory(t *testing.T) {
	Convey("Given an XP history out of time order", t, func() {
		history := []model.TimedAmount{
			{Timestamp: daysAgo(1), Amount: 10},
			{Timestamp: daysAgo(5), Amount: 20},
		}

		Convey("When projecting an unknown window", func() {
			xp, err := chart.XP(history, window.Window("2w"), series.Canvas{Width: 100, Height: 100, Padding: 10}, now)

			Convey("Then it falls back to the default window and sorts by time", func() {
				So(err, ShouldBeNil)
				So(xp.Window, ShouldEqual, window.Default)
				So(xp.LastAmount, ShouldEqual, 10)
				So(history[0].Amount, ShouldEqual, 10)
			})
		})
	})
}
