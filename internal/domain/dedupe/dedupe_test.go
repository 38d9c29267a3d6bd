package dedupe_test

import (
	"testing"
	"time"

	"github.com/okian/learnboard/internal/domain/dedupe"
	"github.com/okian/learnboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLatestSkills(t *testing.T) {
	t0 := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	Convey("Given no skill transactions", t, func() {
		out := dedupe.LatestSkills(nil)

		Convey("Then the result is empty but usable", func() {
			So(out, ShouldNotBeNil)
			So(len(out), ShouldEqual, 0)
		})
	})

	Convey("Given repeated measurements of the same skill", t, func() {
		tx := []model.SkillTransaction{
			{Type: "skill_go", Amount: 40, CreatedAt: t0},
			{Type: "skill_go", Amount: 55, CreatedAt: t0.Add(48 * time.Hour)},
			{Type: "skill_go", Amount: 50, CreatedAt: t0.Add(24 * time.Hour)},
		}

		Convey("When de-duplicating", func() {
			out := dedupe.LatestSkills(tx)

			Convey("Then the most recent amount wins", func() {
				So(out, ShouldResemble, []model.SkillScore{{SkillName: "skill_go", Amount: 55}})
			})
		})
	})

	Convey("Given measurements sharing a timestamp", t, func() {
		tx := []model.SkillTransaction{
			{Type: "skill_js", Amount: 30},
			{Type: "skill_js", Amount: 70},
			{Type: "skill_sql", Amount: 20, CreatedAt: t0},
			{Type: "skill_sql", Amount: 25, CreatedAt: t0},
		}

		Convey("When de-duplicating", func() {
			out := dedupe.LatestSkills(tx)

			Convey("Then the first entry in source order wins", func() {
				So(out, ShouldResemble, []model.SkillScore{
					{SkillName: "skill_js", Amount: 30},
					{SkillName: "skill_sql", Amount: 20},
				})
			})
		})
	})

	Convey("Given several skills in arbitrary order", t, func() {
		tx := []model.SkillTransaction{
			{Type: "skill_unix", Amount: 10, CreatedAt: t0},
			{Type: "skill_css", Amount: 20, CreatedAt: t0},
			{Type: "skill_go", Amount: 30, CreatedAt: t0},
		}

		Convey("Then the output is sorted by skill name", func() {
			out := dedupe.LatestSkills(tx)
			So(len(out), ShouldEqual, 3)
			So(out[0].SkillName, ShouldEqual, "skill_css")
			So(out[1].SkillName, ShouldEqual, "skill_go")
			So(out[2].SkillName, ShouldEqual, "skill_unix")
		})

		Convey("And the input is not modified", func() {
			before := append([]model.SkillTransaction(nil), tx...)
			dedupe.LatestSkills(tx)
			So(tx, ShouldResemble, before)
		})
	})
}
