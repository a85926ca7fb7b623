package models

// Card is a single front/back study unit. IDs are assigned once at creation
// and never reused, so a deleted card's id stays dangling in study history.
type Card struct {
	ID       int64  `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Category string `json:"category"`
	Learned  bool   `json:"learned"`
}

// CardInput carries the user-editable fields of a card. All three are
// required after trimming.
type CardInput struct {
	Front    string `json:"front" validate:"required"`
	Back     string `json:"back" validate:"required"`
	Category string `json:"category" validate:"required"`
}
