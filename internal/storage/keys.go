package storage

// Logical keys for everything the app persists. Values are JSON-encoded text.
// KeyUserProgress and KeySettings are reserved: nothing writes them today, but
// they stay in the key set so backups that carry them survive a round trip.
const (
	KeyFlashCards    = "flashcard_app_cards"
	KeyUserProgress  = "flashcard_app_progress"
	KeyStudyHistory  = "flashcard_app_history"
	KeySettings      = "flashcard_app_settings"
	KeyDailyGoal     = "flashcard_app_daily_goal"
	KeyStudyStreak   = "flashcard_app_streak"
	KeyLastStudyDate = "flashcard_app_last_study_date"
	KeyAppVersion    = "flashcard_app_version"
)

// KnownKeys returns every logical key the app owns, in a stable order.
// Export, import and clear operate over this set; anything else in the
// backing store is ignored.
func KnownKeys() []string {
	return []string{
		KeyFlashCards,
		KeyUserProgress,
		KeyStudyHistory,
		KeySettings,
		KeyDailyGoal,
		KeyStudyStreak,
		KeyLastStudyDate,
		KeyAppVersion,
	}
}
