// Package dedupe collapses repeated skill measurements to one score per skill.
package dedupe

import (
	"sort"

	"github.com/okian/learnboard/internal/domain/model"
)

// LatestSkills keeps one score per skill type. The entry with the latest
// CreatedAt wins; on equal timestamps, including two missing ones, the entry
// seen first wins. The result is sorted by skill name.
func LatestSkills(tx []model.SkillTransaction) []model.SkillScore {
	latest := make(map[string]model.SkillTransaction, len(tx))
	for _, t := range tx {
		cur, seen := latest[t.Type]
		if !seen || t.CreatedAt.After(cur.CreatedAt) {
			latest[t.Type] = t
		}
	}

	out := make([]model.SkillScore, 0, len(latest))
	for name, t := range latest {
		out = append(out, model.SkillScore{SkillName: name, Amount: t.Amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SkillName < out[j].SkillName
	})
	return out
}
