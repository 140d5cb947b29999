// Package scoring computes per-teen score lookups, totals, and the
// deterministic leaderboard order from raw category/score data.
package scoring

import (
	"sort"
	"strings"

	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/internal/domain/types"
)

// Score returns the stored value for a teen in a category, or 0.
// It never fails: missing teens and missing keys both read as zero.
func Score(scores model.Scores, teenID, categoryKey string) int {
	rec, ok := scores[teenID]
	if !ok {
		return 0
	}
	return rec[categoryKey]
}

// Total sums a teen's scores over the currently registered categories.
// Stale score entries for removed categories do not contribute.
func Total(scores model.Scores, categories []model.Category, teenID string) int {
	total := 0
	for _, c := range categories {
		total += Score(scores, teenID, c.Key)
	}
	return total
}

// EffectivePoints resolves a category's current point value: the
// CategoryPoints entry when present, DefaultPoints otherwise.
func EffectivePoints(c model.Category, points map[string]int) int {
	if v, ok := points[c.Key]; ok {
		return v
	}
	return c.DefaultPoints
}

// Rank orders teens by total descending, ties broken by name ascending.
// The order is a total order: stable and reproducible for equal input.
func Rank(teens []model.Teen, categories []model.Category, scores model.Scores) []types.Standing {
	standings := make([]types.Standing, 0, len(teens))
	for _, t := range teens {
		standings = append(standings, types.Standing{
			ID:    t.ID,
			Name:  t.Name,
			Total: Total(scores, categories, t.ID),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return strings.Compare(standings[i].Name, standings[j].Name) < 0
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
