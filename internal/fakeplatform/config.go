// Package fakeplatform serves a synthetic stand-in for the education
// platform: Basic-auth sign-in issuing JWTs and a GraphQL endpoint that
// answers the dashboard operations from a seeded dataset.
package fakeplatform

import "time"

// Config holds configuration for the fake platform.
type Config struct {
	Identifier     string        // accepted login or email
	Password       string        // accepted password
	Secret         string        // HS256 signing key
	TokenTTL       time.Duration // lifetime of issued tokens
	Seed           int64         // dataset seed; equal seeds give equal datasets
	Reference      time.Time     // "now" of the dataset; XP spans the year before it
	XPCount        int           // number of XP transactions
	ProjectCount   int           // number of progress rows
	EventPath      string        // event path XP is reported under
	SkillTypes     []string      // skill transaction types to generate
	DistinctSkills bool          // emulate distinct_on: one skill row per type
	MalformedXP    bool          // drop the timestamp of the newest XP row
}

// DefaultConfig returns a config suitable for local development.
func DefaultConfig() Config {
	return Config{
		Identifier:     "student",
		Password:       "student",
		Secret:         "learnboard-dev-secret",
		TokenTTL:       24 * time.Hour,
		Seed:           1,
		Reference:      time.Now().UTC().Truncate(time.Second),
		XPCount:        60,
		ProjectCount:   24,
		EventPath:      "/bahrain/bh-module",
		SkillTypes:     []string{"skill_go", "skill_js", "skill_html", "skill_css", "skill_unix", "skill_docker", "skill_sql", "skill_technologies"},
		DistinctSkills: true,
	}
}
