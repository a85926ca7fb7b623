package models

import "time"

// StudyHistoryEntry records one study attempt on one card. Entries are
// append-only; a bulk reset is the only way they go away.
type StudyHistoryEntry struct {
	CardID    int64   `json:"card_id"`
	Date      string  `json:"date"`       // RFC 3339
	IsCorrect bool    `json:"is_correct"`
	TimeSpent float64 `json:"time_spent"` // seconds
	Timestamp int64   `json:"timestamp"`  // epoch milliseconds
}

type DailyStats struct {
	CardsStudiedToday int  `json:"cards_studied_today"`
	DailyProgress     int  `json:"daily_progress"`
	IsGoalReached     bool `json:"is_goal_reached"`
	DailyGoal         int  `json:"daily_goal"`
}

// ChartPoint is one day in the weekly series, oldest first.
type ChartPoint struct {
	Date    string `json:"date"` // 2006-01-02
	Day     int    `json:"day"`  // day of month
	Cards   int    `json:"cards"`
	DayName string `json:"day_name"`
}

type WeeklyStats struct {
	WeeklyCards  int          `json:"weekly_cards"`
	DailyAverage int          `json:"daily_average"`
	ChartData    []ChartPoint `json:"chart_data"`
}

type PerformanceData struct {
	Accuracy         int `json:"accuracy"`
	TotalAnswers     int `json:"total_answers"`
	CorrectAnswers   int `json:"correct_answers"`
	AverageTimeSpent int `json:"average_time_spent"`
	Period           int `json:"period"` // days
}

type CardStats struct {
	TotalAttempts   int        `json:"total_attempts"`
	CorrectAttempts int        `json:"correct_attempts"`
	Accuracy        int        `json:"accuracy"`
	LastStudied     *time.Time `json:"last_studied"`
}

// ProgressExport is the backup shape for the tracker's state. On import,
// only fields present in the JSON overwrite existing state.
type ProgressExport struct {
	StudyHistory  []StudyHistoryEntry `json:"study_history"`
	DailyGoal     int                 `json:"daily_goal"`
	Streak        int                 `json:"streak"`
	LastStudyDate string              `json:"last_study_date,omitempty"`
	ExportDate    string              `json:"export_date"`
}

// SessionSummary is returned when an in-memory study session ends.
type SessionSummary struct {
	CardsStudied   int     `json:"cards_studied"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalTime      float64 `json:"total_time"`
	Duration       int64   `json:"duration"` // milliseconds
	Accuracy       int     `json:"accuracy"`
}
