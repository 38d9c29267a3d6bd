// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// PassGrade is the lowest grade that counts as a passed project.
const PassGrade = 1.0

// TimedAmount is one XP transaction: an amount earned at an instant.
type TimedAmount struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
}

// ProjectResult is the graded outcome of one project attempt.
type ProjectResult struct {
	ID          string    `json:"id"`
	Grade       float64   `json:"grade"`
	CompletedAt time.Time `json:"completed_at"`
	SubjectName string    `json:"subject_name"`
}

// Passed reports whether the grade clears the pass boundary.
func (p ProjectResult) Passed() bool {
	return p.Grade >= PassGrade
}

// SkillScore is the current level of one skill, conceptually in [0, 100].
type SkillScore struct {
	SkillName string  `json:"skill_name"`
	Amount    float64 `json:"amount"`
}

// SkillTransaction is a raw skill measurement before de-duplication.
// CreatedAt is zero when the upstream did not report it.
type SkillTransaction struct {
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile holds the identity and reputation counters of the signed-in user.
type UserProfile struct {
	ID         int       `json:"id"`
	Login      string    `json:"login"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Campus     string    `json:"campus"`
	CreatedAt  time.Time `json:"created_at"`
	TotalUp    float64   `json:"total_up"`
	TotalDown  float64   `json:"total_down"`
	AuditRatio float64   `json:"audit_ratio"`
}

// Input is the resolved record set one render pass works from.
// A family whose records could not be decoded carries the decode error in
// its Err field and no records; the other families are unaffected.
type Input struct {
	Profile  UserProfile
	XP       []TimedAmount
	Projects []ProjectResult
	Skills   []SkillTransaction

	XPErr       error
	ProjectsErr error
	SkillsErr   error
}

// SortByTime returns a copy of events ordered by ascending timestamp.
// Events sharing a timestamp keep their relative order.
func SortByTime(events []TimedAmount) []TimedAmount {
	out := make([]TimedAmount, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
