package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/learnboard/internal/fakeplatform"
)

// datasetFlags are shared by every command that builds a dataset.
type datasetFlags struct {
	identifier     string
	password       string
	secret         string
	tokenTTL       time.Duration
	seed           int64
	xp             int
	projects       int
	eventPath      string
	skills         []string
	duplicateSkill bool
	malformedXP    bool
}

func (f *datasetFlags) bind(cmd *cobra.Command) {
	def := fakeplatform.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.identifier, "identifier", def.Identifier, "Login accepted at sign-in")
	fs.StringVar(&f.password, "password", def.Password, "Password accepted at sign-in")
	fs.StringVar(&f.secret, "secret", def.Secret, "HS256 key used to sign tokens")
	fs.DurationVar(&f.tokenTTL, "token-ttl", def.TokenTTL, "Lifetime of issued tokens")
	fs.Int64Var(&f.seed, "seed", def.Seed, "Dataset seed")
	fs.IntVar(&f.xp, "xp", def.XPCount, "Number of XP transactions")
	fs.IntVar(&f.projects, "projects", def.ProjectCount, "Number of project progress rows")
	fs.StringVar(&f.eventPath, "event-path", def.EventPath, "Event path XP transactions belong to")
	fs.StringSliceVar(&f.skills, "skills", def.SkillTypes, "Skill transaction types to generate")
	fs.BoolVar(&f.duplicateSkill, "duplicate-skills", false, "Return every skill sample instead of one per type")
	fs.BoolVar(&f.malformedXP, "malformed-xp", false, "Drop the timestamp of the newest XP row")
}

func (f *datasetFlags) config() fakeplatform.Config {
	cfg := fakeplatform.DefaultConfig()
	cfg.Identifier = f.identifier
	cfg.Password = f.password
	cfg.Secret = f.secret
	cfg.TokenTTL = f.tokenTTL
	cfg.Seed = f.seed
	cfg.XPCount = f.xp
	cfg.ProjectCount = f.projects
	cfg.EventPath = f.eventPath
	cfg.SkillTypes = f.skills
	cfg.DistinctSkills = !f.duplicateSkill
	cfg.MalformedXP = f.malformedXP
	return cfg
}
