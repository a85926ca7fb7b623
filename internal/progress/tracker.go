package progress

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/huyle/flashdeck/internal/logger"
	"github.com/huyle/flashdeck/internal/models"
	"github.com/huyle/flashdeck/internal/storage"
)

// dayLayout is the calendar-day granularity used for all streak and rollup
// comparisons. Days are compared as local-time date strings, never as raw
// timestamps, so the time of day cannot drift a comparison across midnight.
const dayLayout = "2006-01-02"

// Tracker owns the study history and streak settings. It persists each piece
// of state under its own storage key, disjoint from the card collection.
// History is append-only; a bulk Reset is the only way entries disappear.
type Tracker struct {
	adapter *storage.Adapter
	log     *logger.Logger
	now     func() time.Time

	history       []models.StudyHistoryEntry
	dailyGoal     int
	streak        int
	lastStudyDate string // day string, empty when never studied
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the tracker's clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithDefaultGoal sets the daily goal used when none has been persisted.
func WithDefaultGoal(goal int) Option {
	return func(t *Tracker) {
		if goal > 0 {
			t.dailyGoal = goal
		}
	}
}

// NewTracker creates a tracker backed by the adapter and loads any
// previously persisted history and settings.
func NewTracker(ctx context.Context, adapter *storage.Adapter, opts ...Option) *Tracker {
	t := &Tracker{
		adapter:   adapter,
		log:       logger.FromContext(ctx).WithPrefix("progress"),
		now:       time.Now,
		dailyGoal: 10,
	}
	for _, opt := range opts {
		opt(t)
	}

	adapter.GetItem(ctx, storage.KeyStudyHistory, &t.history)
	// A restored backup can carry any value for the goal key; a goal below 1
	// would corrupt the daily progress math, so it keeps the default instead.
	goal := 0
	if adapter.GetItem(ctx, storage.KeyDailyGoal, &goal) {
		if goal >= 1 {
			t.dailyGoal = goal
		} else {
			t.log.Warn("ignoring persisted daily goal %d", goal)
		}
	}
	adapter.GetItem(ctx, storage.KeyStudyStreak, &t.streak)
	adapter.GetItem(ctx, storage.KeyLastStudyDate, &t.lastStudyDate)
	t.log.Debug("loaded %d history entries, streak=%d", len(t.history), t.streak)
	return t
}

// RecordStudy appends a history entry for one study attempt and advances the
// day streak. timeSpent is in seconds.
func (t *Tracker) RecordStudy(ctx context.Context, cardID int64, isCorrect bool, timeSpent float64) {
	now := t.now()
	entry := models.StudyHistoryEntry{
		CardID:    cardID,
		Date:      now.Format(time.RFC3339),
		IsCorrect: isCorrect,
		TimeSpent: timeSpent,
		Timestamp: now.UnixMilli(),
	}
	t.history = append(t.history, entry)
	t.saveHistory(ctx)
	t.updateStreak(ctx)
}

// updateStreak implements the streak transition table:
//
//	never studied        -> streak = 1
//	already today        -> unchanged
//	studied yesterday    -> streak + 1
//	gap of 2+ days       -> streak = 1
func (t *Tracker) updateStreak(ctx context.Context) {
	now := t.now()
	today := now.Format(dayLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dayLayout)

	switch t.lastStudyDate {
	case "":
		t.streak = 1
	case today:
		return
	case yesterday:
		t.streak++
	default:
		t.streak = 1
	}
	t.lastStudyDate = today

	t.adapter.SetItem(ctx, storage.KeyStudyStreak, t.streak)
	t.adapter.SetItem(ctx, storage.KeyLastStudyDate, t.lastStudyDate)
	t.log.Debug("streak updated: streak=%d, last_study_date=%s", t.streak, t.lastStudyDate)
}

// Streak returns the current consecutive-day streak.
func (t *Tracker) Streak() int {
	return t.streak
}

// DailyGoal returns the cards-per-day target.
func (t *Tracker) DailyGoal() int {
	return t.dailyGoal
}

// SetDailyGoal updates the target. Non-positive values are ignored.
func (t *Tracker) SetDailyGoal(ctx context.Context, goal int) {
	if goal < 1 {
		t.log.Debug("ignoring invalid daily goal: %d", goal)
		return
	}
	t.dailyGoal = goal
	t.adapter.SetItem(ctx, storage.KeyDailyGoal, goal)
}

// LastStudyDate returns the day string of the most recent study, or "" when
// the user has never studied.
func (t *Tracker) LastStudyDate() string {
	return t.lastStudyDate
}

// History returns a snapshot of the study history.
func (t *Tracker) History() []models.StudyHistoryEntry {
	out := make([]models.StudyHistoryEntry, len(t.history))
	copy(out, t.history)
	return out
}

// DailyStats reports today's study count against the daily goal. Progress is
// capped at 100 even when the goal is exceeded.
func (t *Tracker) DailyStats() models.DailyStats {
	today := t.now().Format(dayLayout)
	studied := 0
	for _, e := range t.history {
		if t.entryDay(e) == today {
			studied++
		}
	}

	progress := roundHalfUp(float64(studied) / float64(t.dailyGoal) * 100)
	if progress > 100 {
		progress = 100
	}
	return models.DailyStats{
		CardsStudiedToday: studied,
		DailyProgress:     progress,
		IsGoalReached:     studied >= t.dailyGoal,
		DailyGoal:         t.dailyGoal,
	}
}

// WeeklyStats rolls the trailing 7 days (today inclusive) into per-day counts
// for charting, oldest first, plus the rounded daily average.
func (t *Tracker) WeeklyStats() models.WeeklyStats {
	perDay := make(map[string]int)
	for _, e := range t.history {
		perDay[t.entryDay(e)]++
	}

	now := t.now()
	chart := make([]models.ChartPoint, 0, 7)
	weekly := 0
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStr := day.Format(dayLayout)
		count := perDay[dayStr]
		weekly += count
		chart = append(chart, models.ChartPoint{
			Date:    dayStr,
			Day:     day.Day(),
			Cards:   count,
			DayName: day.Weekday().String()[:3],
		})
	}

	return models.WeeklyStats{
		WeeklyCards:  weekly,
		DailyAverage: roundHalfUp(float64(weekly) / 7),
		ChartData:    chart,
	}
}

// Performance computes accuracy and average time spent over the trailing
// window of the given number of days. Both are 0 when the window is empty.
func (t *Tracker) Performance(days int) models.PerformanceData {
	cutoff := t.now().AddDate(0, 0, -days).UnixMilli()

	total, correct := 0, 0
	timeSum := 0.0
	for _, e := range t.history {
		if e.Timestamp < cutoff {
			continue
		}
		total++
		if e.IsCorrect {
			correct++
		}
		timeSum += e.TimeSpent
	}

	data := models.PerformanceData{
		TotalAnswers:   total,
		CorrectAnswers: correct,
		Period:         days,
	}
	if total > 0 {
		data.Accuracy = roundHalfUp(float64(correct) / float64(total) * 100)
		data.AverageTimeSpent = roundHalfUp(timeSum / float64(total))
	}
	return data
}

// CardStats derives per-card accuracy and the most recent study time.
// LastStudied is nil for a card that was never studied. Entries for deleted
// cards still count; history keeps only a weak reference to the card id.
func (t *Tracker) CardStats(cardID int64) models.CardStats {
	total, correct := 0, 0
	var last *time.Time
	for _, e := range t.history {
		if e.CardID != cardID {
			continue
		}
		total++
		if e.IsCorrect {
			correct++
		}
		studied := time.UnixMilli(e.Timestamp)
		last = &studied
	}

	cs := models.CardStats{
		TotalAttempts:   total,
		CorrectAttempts: correct,
		LastStudied:     last,
	}
	if total > 0 {
		cs.Accuracy = roundHalfUp(float64(correct) / float64(total) * 100)
	}
	return cs
}

// Reset irreversibly clears the history, the streak and the last study date.
// The three writes go through one batch so a retry after a storage hiccup
// picks up where it left off.
func (t *Tracker) Reset(ctx context.Context) bool {
	t.history = nil
	t.streak = 0
	t.lastStudyDate = ""

	batch := t.adapter.Batch().
		Set(storage.KeyStudyHistory, []models.StudyHistoryEntry{}).
		Set(storage.KeyStudyStreak, 0).
		Remove(storage.KeyLastStudyDate)
	if !batch.Execute(ctx) {
		t.log.Warn("failed to persist progress reset, %d operations still queued", batch.Len())
		return false
	}
	t.log.Info("progress reset")
	return true
}

// Export snapshots the tracker's full state for backup.
func (t *Tracker) Export() models.ProgressExport {
	return models.ProgressExport{
		StudyHistory:  t.History(),
		DailyGoal:     t.dailyGoal,
		Streak:        t.streak,
		LastStudyDate: t.lastStudyDate,
		ExportDate:    t.now().Format(time.RFC3339),
	}
}

// Import restores state from a backup document. Only fields present in the
// input overwrite existing state, so partial backups are fine. Malformed
// input is reported as false, never a panic.
func (t *Tracker) Import(ctx context.Context, raw []byte) bool {
	var in struct {
		StudyHistory  *[]models.StudyHistoryEntry `json:"study_history"`
		DailyGoal     *int                        `json:"daily_goal"`
		Streak        *int                        `json:"streak"`
		LastStudyDate *string                     `json:"last_study_date"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		t.log.Error("failed to import progress data: %v", err)
		return false
	}

	if in.StudyHistory != nil {
		t.history = *in.StudyHistory
		t.saveHistory(ctx)
	}
	if in.DailyGoal != nil && *in.DailyGoal > 0 {
		t.dailyGoal = *in.DailyGoal
		t.adapter.SetItem(ctx, storage.KeyDailyGoal, t.dailyGoal)
	}
	if in.Streak != nil {
		t.streak = *in.Streak
		t.adapter.SetItem(ctx, storage.KeyStudyStreak, t.streak)
	}
	if in.LastStudyDate != nil {
		t.lastStudyDate = *in.LastStudyDate
		t.adapter.SetItem(ctx, storage.KeyLastStudyDate, t.lastStudyDate)
	}
	return true
}

// entryDay normalizes an entry to its local calendar day. Falls back to the
// epoch timestamp when the date string does not parse.
func (t *Tracker) entryDay(e models.StudyHistoryEntry) string {
	if parsed, err := time.Parse(time.RFC3339, e.Date); err == nil {
		return parsed.Local().Format(dayLayout)
	}
	return time.UnixMilli(e.Timestamp).Format(dayLayout)
}

func (t *Tracker) saveHistory(ctx context.Context) {
	if !t.adapter.SetItem(ctx, storage.KeyStudyHistory, t.history) {
		t.log.Warn("failed to persist study history")
	}
}

func roundHalfUp(v float64) int {
	return int(math.Round(v))
}
