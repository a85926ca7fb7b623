package models

// DerivedStats is recomputed from the card collection on demand, never stored.
type DerivedStats struct {
	TotalCards     int      `json:"total_cards"`
	LearnedCards   int      `json:"learned_cards"`
	RemainingCards int      `json:"remaining_cards"`
	Progress       int      `json:"progress"`
	Categories     []string `json:"categories"`
}

type CategoryStat struct {
	Total   int `json:"total"`
	Learned int `json:"learned"`
}
