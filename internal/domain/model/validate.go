package model

import "math"

// ValidateTimed checks that every event has a timestamp and a finite,
// non-negative amount. The first violation is returned.
func ValidateTimed(kind string, events []TimedAmount) error {
	for i, e := range events {
		if e.Timestamp.IsZero() {
			return &MalformedRecordError{Kind: kind, Index: i, Field: "createdAt"}
		}
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			return &MalformedRecordError{Kind: kind, Index: i, Field: "amount", Reason: "is not a finite number"}
		}
		if e.Amount < 0 {
			return &MalformedRecordError{Kind: kind, Index: i, Field: "amount", Reason: "is negative"}
		}
	}
	return nil
}

// ValidateProjects checks that every project result has an id, a completion
// time and a finite grade.
func ValidateProjects(results []ProjectResult) error {
	for i, r := range results {
		switch {
		case r.ID == "":
			return &MalformedRecordError{Kind: "progress", Index: i, Field: "id"}
		case r.CompletedAt.IsZero():
			return &MalformedRecordError{Kind: "progress", Index: i, Field: "createdAt"}
		case math.IsNaN(r.Grade) || math.IsInf(r.Grade, 0):
			return &MalformedRecordError{Kind: "progress", Index: i, Field: "grade", Reason: "is not a finite number"}
		}
	}
	return nil
}

// ValidateSkills checks that every skill transaction names its skill and
// carries a finite amount. Out-of-range amounts are clamped later, not here.
func ValidateSkills(tx []SkillTransaction) error {
	for i, s := range tx {
		if s.Type == "" {
			return &MalformedRecordError{Kind: "skill", Index: i, Field: "type"}
		}
		if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) {
			return &MalformedRecordError{Kind: "skill", Index: i, Field: "amount", Reason: "is not a finite number"}
		}
	}
	return nil
}
