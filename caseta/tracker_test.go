package caseta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRemote = Remote{ID: "remote-1", Name: "living_room", Kind: Pico3ButtonRaiseLower}

func TestIncrementAdvancesThroughFullSequence(t *testing.T) {
	tracker := NewTracker(testRemote, ButtonPowerOn, DefaultTimings())

	for _, action := range []ButtonAction{Press, Release, Press, Release} {
		require.NoError(t, tracker.Increment(action))
	}

	assert.Equal(t, StateDoublePressFinished, currentState(tracker))

	// Nothing comes after a finished double press.
	err := tracker.Increment(Press)
	require.ErrorIs(t, err, ErrIllegalTransition)
	err = tracker.Increment(Release)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestIncrementRejectsOutOfOrderActions(t *testing.T) {
	tracker := NewTracker(testRemote, ButtonPowerOn, DefaultTimings())

	// A release before any press is never legal.
	require.ErrorIs(t, tracker.Increment(Release), ErrIllegalTransition)

	require.NoError(t, tracker.Increment(Press))

	// A second press while awaiting release is never legal.
	require.ErrorIs(t, tracker.Increment(Press), ErrIllegalTransition)

	// A failed increment must not advance the state.
	assert.Equal(t, StateFirstPressAwaitingRelease, currentState(tracker))
}

func TestTimedOut(t *testing.T) {
	tracker := NewTracker(testRemote, ButtonPowerOn, DefaultTimings())

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	now := start
	tracker.now = func() time.Time { return now }

	// Tracking never started, so there is nothing to time out.
	assert.False(t, tracker.TimedOut())

	require.NoError(t, tracker.Increment(Press))
	assert.False(t, tracker.TimedOut())

	now = start.Add(5 * time.Second)
	assert.False(t, tracker.TimedOut(), "exactly at the window boundary")

	now = start.Add(5*time.Second + time.Millisecond)
	assert.True(t, tracker.TimedOut())
}

func TestTrackingStartRecordedOnlyOnce(t *testing.T) {
	tracker := NewTracker(testRemote, ButtonPowerOn, DefaultTimings())

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	now := start
	tracker.now = func() time.Time { return now }

	require.NoError(t, tracker.Increment(Press))

	// Later transitions must not move the start instant.
	now = start.Add(time.Minute)
	require.NoError(t, tracker.Increment(Release))

	var startedAt time.Time
	_ = tracker.history.Do(func(h *history) error {
		startedAt = h.startedAt
		return nil
	})
	assert.Equal(t, start, startedAt)
}

func TestFreshTrackerIsNotFinished(t *testing.T) {
	tracker := NewTracker(testRemote, ButtonPowerOn, DefaultTimings())
	assert.False(t, tracker.Finished())
}

func currentState(t *Tracker) ButtonState {
	var state ButtonState
	_ = t.history.Do(func(h *history) error {
		state = h.state
		return nil
	})
	return state
}
