package progress

import (
	"time"

	"github.com/huyle/flashdeck/internal/models"
)

// Session tracks a single study sitting in memory only; nothing here is
// persisted. Summaries are handed to the caller on End and the session
// resets for the next sitting.
type Session struct {
	now func() time.Time

	startTime    time.Time
	active       bool
	cardsStudied int
	correct      int
	totalTime    float64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionClock overrides the session's clock.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session tracker.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a new sitting, discarding any previous counts.
func (s *Session) Start() {
	s.startTime = s.now()
	s.active = true
	s.cardsStudied = 0
	s.correct = 0
	s.totalTime = 0
}

// RecordAnswer counts one answered card. timeSpent is in seconds.
func (s *Session) RecordAnswer(isCorrect bool, timeSpent float64) {
	s.cardsStudied++
	if isCorrect {
		s.correct++
	}
	s.totalTime += timeSpent
}

// Active reports whether a sitting is in progress.
func (s *Session) Active() bool {
	return s.active
}

// End closes the sitting and returns its summary. The session is reset and
// can be started again.
func (s *Session) End() models.SessionSummary {
	summary := models.SessionSummary{
		CardsStudied:   s.cardsStudied,
		CorrectAnswers: s.correct,
		TotalTime:      s.totalTime,
	}
	if s.active {
		summary.Duration = s.now().Sub(s.startTime).Milliseconds()
	}
	if s.cardsStudied > 0 {
		summary.Accuracy = roundHalfUp(float64(s.correct) / float64(s.cardsStudied) * 100)
	}

	s.active = false
	s.startTime = time.Time{}
	s.cardsStudied = 0
	s.correct = 0
	s.totalTime = 0
	return summary
}
