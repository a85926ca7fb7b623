// Package stats derives display statistics from a card collection snapshot.
// Everything here is a pure function of its input; collections are small
// enough that recomputing on every call is fine.
package stats

import (
	"math"

	"github.com/huyle/flashdeck/internal/models"
)

// Compute derives counts, completion percentage and the distinct category
// list from the given collection. The percentage is an integer, rounded
// half-up, and 0 for an empty collection. Categories keep first-seen order.
func Compute(cards []models.Card) models.DerivedStats {
	total := len(cards)
	learned := 0
	seen := make(map[string]bool)
	categories := []string{}
	for _, c := range cards {
		if c.Learned {
			learned++
		}
		if !seen[c.Category] {
			seen[c.Category] = true
			categories = append(categories, c.Category)
		}
	}

	progress := 0
	if total > 0 {
		progress = roundPercent(learned, total)
	}

	return models.DerivedStats{
		TotalCards:     total,
		LearnedCards:   learned,
		RemainingCards: total - learned,
		Progress:       progress,
		Categories:     categories,
	}
}

// ComputeByCategory breaks the collection down into per-category
// total/learned counts.
func ComputeByCategory(cards []models.Card) map[string]models.CategoryStat {
	byCategory := make(map[string]models.CategoryStat)
	for _, c := range cards {
		stat := byCategory[c.Category]
		stat.Total++
		if c.Learned {
			stat.Learned++
		}
		byCategory[c.Category] = stat
	}
	return byCategory
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
