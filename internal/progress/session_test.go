package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huyle/flashdeck/internal/progress"
)

func TestSessionLifecycle(t *testing.T) {
	clock := baseClock()
	session := progress.NewSession(progress.WithSessionClock(clock.Now))

	assert.False(t, session.Active())

	session.Start()
	assert.True(t, session.Active())

	session.RecordAnswer(true, 4)
	session.RecordAnswer(true, 6)
	session.RecordAnswer(false, 2)
	clock.now = clock.now.Add(90 * time.Second)

	summary := session.End()
	assert.Equal(t, 3, summary.CardsStudied)
	assert.Equal(t, 2, summary.CorrectAnswers)
	assert.Equal(t, 12.0, summary.TotalTime)
	assert.Equal(t, int64(90_000), summary.Duration)
	assert.Equal(t, 67, summary.Accuracy, "2/3 rounds to 67")

	assert.False(t, session.Active())
}

func TestSessionEndResetsCounts(t *testing.T) {
	session := progress.NewSession()

	session.Start()
	session.RecordAnswer(true, 1)
	session.End()

	summary := session.End()
	assert.Zero(t, summary.CardsStudied)
	assert.Zero(t, summary.Accuracy)
	assert.Zero(t, summary.Duration)
}

func TestSessionWithoutStart(t *testing.T) {
	session := progress.NewSession()
	session.RecordAnswer(true, 1)

	summary := session.End()
	assert.Equal(t, 1, summary.CardsStudied)
	assert.Zero(t, summary.Duration, "no start time means no duration")
}
