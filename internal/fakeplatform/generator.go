package fakeplatform

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/okian/learnboard/internal/adapters/platform"
)

const (
	day          = 24 * time.Hour
	historyDays  = 365
	skillSamples = 3
	inProgress   = 5 // every fifth progress row has no grade yet
	userID       = 1042
)

var projectNames = []string{
	"go-reloaded", "ascii-art", "ascii-art-web", "groupie-tracker", "lem-in",
	"forum", "real-time-forum", "graphql", "make-your-game", "social-network",
	"push-swap", "net-cat", "tetris-optimizer", "math-skills", "guess-it",
}

// Dataset is the record set served to every signed-in user.
type Dataset struct {
	User     platform.UserRow       `json:"user"`
	XP       []platform.XPRow       `json:"xp"`
	Progress []platform.ProgressRow `json:"progress"`
	Skills   []platform.SkillRow    `json:"skills"`
}

// Generate builds a deterministic dataset from cfg.Seed. XP rows are in
// ascending time order; skill rows hold several samples per type.
func Generate(cfg Config) Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // synthetic data
	ref := cfg.Reference.UTC()
	ts := func(t time.Time) *string {
		s := t.Format(time.RFC3339Nano)
		return &s
	}

	var d Dataset

	joined := ref.Add(-time.Duration(historyDays+rng.Intn(historyDays)) * day)
	up, down := 500_000+rng.Float64()*1_000_000, 400_000+rng.Float64()*600_000
	ratio := up / down
	login := cfg.Identifier
	first := login
	if first != "" {
		first = strings.ToUpper(first[:1]) + first[1:]
	}
	id := userID
	d.User = platform.UserRow{
		ID:         &id,
		Login:      &login,
		FirstName:  first,
		LastName:   "Tester",
		Email:      login + "@learn.local",
		Campus:     "bahrain",
		CreatedAt:  joined.Format(time.RFC3339Nano),
		TotalUp:    &up,
		TotalDown:  &down,
		AuditRatio: &ratio,
	}

	offsets := make([]int, cfg.XPCount)
	for i := range offsets {
		offsets[i] = rng.Intn(historyDays * 24)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))
	d.XP = make([]platform.XPRow, 0, cfg.XPCount)
	for _, h := range offsets {
		amount := float64(5_000 + rng.Intn(95_000))
		d.XP = append(d.XP, platform.XPRow{Amount: &amount, CreatedAt: ts(ref.Add(-time.Duration(h) * time.Hour))})
	}
	if cfg.MalformedXP && len(d.XP) > 0 {
		d.XP[len(d.XP)-1].CreatedAt = nil
	}

	d.Progress = make([]platform.ProgressRow, 0, cfg.ProjectCount)
	for i := 0; i < cfg.ProjectCount; i++ {
		pid := int64(100_000 + i)
		row := platform.ProgressRow{
			ID:        &pid,
			CreatedAt: ts(ref.Add(-time.Duration(rng.Intn(historyDays)) * day)),
			Object: &platform.ObjectRow{
				ID:   5_000 + i,
				Name: projectNames[i%len(projectNames)],
				Type: "project",
			},
		}
		if (i+1)%inProgress != 0 {
			grade := rng.Float64() * 2
			row.Grade = &grade
		}
		d.Progress = append(d.Progress, row)
	}

	d.Skills = make([]platform.SkillRow, 0, len(cfg.SkillTypes)*skillSamples)
	for _, st := range cfg.SkillTypes {
		level := float64(5 + rng.Intn(30))
		for s := 0; s < skillSamples; s++ {
			typ := st
			amount := level
			d.Skills = append(d.Skills, platform.SkillRow{
				Type:      &typ,
				Amount:    &amount,
				CreatedAt: ts(ref.Add(-time.Duration(historyDays-s*100) * day)),
			})
			level += float64(5 + rng.Intn(25))
		}
	}
	return d
}

// DistinctSkills keeps the most recent row per type, ordered by type, the
// way the platform answers distinct_on queries.
func DistinctSkills(rows []platform.SkillRow) []platform.SkillRow {
	sorted := append([]platform.SkillRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if *sorted[i].Type != *sorted[j].Type {
			return *sorted[i].Type < *sorted[j].Type
		}
		return *sorted[i].CreatedAt > *sorted[j].CreatedAt
	})
	out := make([]platform.SkillRow, 0, len(sorted))
	for i, r := range sorted {
		if i > 0 && *r.Type == *sorted[i-1].Type {
			continue
		}
		out = append(out, r)
	}
	return out
}
