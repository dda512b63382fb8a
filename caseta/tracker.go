package caseta

import (
	"fmt"
	"time"

	"caseta2mqtt/locked"
)

// Timings are the fixed windows of the gesture classifier. They only vary in
// tests, where real-time waits are compressed.
type Timings struct {
	// DoubleClickWindow decides whether press-release-press-release is one
	// double press or two singles.
	DoubleClickWindow time.Duration
	// PollInterval is how often the watcher re-samples tracker state.
	PollInterval time.Duration
	// MaxDuration is the full tracking window measured from watcher start;
	// a gesture that never terminates within it is abandoned.
	MaxDuration time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		DoubleClickWindow: 500 * time.Millisecond,
		PollInterval:      250 * time.Millisecond,
		MaxDuration:       5 * time.Second,
	}
}

// history is everything the watcher samples: the state machine position, when
// tracking started, and whether the watcher already reached a verdict. It
// lives inside one locked.Value so a sample is always consistent.
type history struct {
	state     ButtonState
	startedAt time.Time
	finished  bool
}

// Tracker follows one in-flight gesture on one remote. Once finished or
// timed out it becomes unusable and the registry silently replaces it on the
// next action for that remote.
type Tracker struct {
	remote  Remote
	button  ButtonID
	timings Timings
	now     func() time.Time

	history *locked.Value[history]
}

func NewTracker(remote Remote, button ButtonID, timings Timings) *Tracker {
	return &Tracker{
		remote:  remote,
		button:  button,
		timings: timings,
		now:     time.Now,
		history: locked.NewValue(history{state: StateNotPressed}),
	}
}

// Increment applies one press/release signal, advancing the state machine.
// The tracking start instant is recorded on the first transition out of
// StateNotPressed.
func (t *Tracker) Increment(action ButtonAction) error {
	return t.history.Do(func(h *history) error {
		if !h.state.ValidFor(action) {
			return fmt.Errorf("%w: %s while in %s", ErrIllegalTransition, action, h.state)
		}

		if h.state == StateNotPressed {
			h.startedAt = t.now()
		}

		next, err := h.state.Next()
		if err != nil {
			return err
		}
		h.state = next

		return nil
	})
}

// Finished reports whether the watcher reached a terminal verdict or gave up.
func (t *Tracker) Finished() bool {
	var finished bool
	_ = t.history.Do(func(h *history) error {
		finished = h.finished
		return nil
	})
	return finished
}

// TimedOut reports whether the gesture has been in flight longer than the
// maximum tracking window. A tracker that never started tracking is not
// timed out.
func (t *Tracker) TimedOut() bool {
	var timedOut bool
	_ = t.history.Do(func(h *history) error {
		timedOut = !h.startedAt.IsZero() && t.now().Sub(h.startedAt) > t.timings.MaxDuration
		return nil
	})
	return timedOut
}
