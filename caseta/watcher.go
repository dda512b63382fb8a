package caseta

import (
	"fmt"
	"log"
	"time"
)

// Watch is the classification loop for one freshly created tracker. It
// sleeps through the double-click window, takes a first sample, then keeps
// polling until the tracker reaches a terminal state or the tracking window
// runs out. Exactly one Watch runs per tracker; it self-terminates and is
// never cancelled from outside.
func (t *Tracker) Watch(handler Handler) error {
	prefix := fmt.Sprintf("remote <id: %s, name: %s>, button: %s", t.remote.ID, t.remote.Name, t.button)

	windowEnd := t.now().Add(t.timings.MaxDuration)
	time.Sleep(t.timings.DoubleClickWindow)

	event, done := t.sample(false)
	if err := t.emit(prefix, handler, event); err != nil {
		return err
	}
	if done {
		return nil
	}

	for t.now().Before(windowEnd) {
		time.Sleep(t.timings.PollInterval)

		// Ongoing notifications were already sent by now, so a completed
		// press-and-release here means the long press finished.
		event, done = t.sample(true)
		if err := t.emit(prefix, handler, event); err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	// The window lapsed without a terminal state, e.g. a press whose release
	// was never seen. Finalize silently.
	_ = t.history.Do(func(h *history) error {
		h.finished = true
		return nil
	})
	log.Printf("%s: the tracking window ended without the button reaching a terminal state", prefix)

	return nil
}

// sample inspects the tracker under its lock and decides what, if anything,
// to emit. The finished flag is set in the same critical section as the
// classification so a concurrent increment can never land in between.
func (t *Tracker) sample(longPressFinishes bool) (event *GestureEvent, done bool) {
	_ = t.history.Do(func(h *history) error {
		switch h.state {
		case StateFirstPressAndFirstRelease:
			if longPressFinishes {
				event = eventOf(LongPressFinished)
			} else {
				event = eventOf(SinglePressCompleted)
			}
			h.finished = true
			done = true

		case StateFirstPressAwaitingRelease:
			event = eventOf(LongPressOngoing)

		case StateDoublePressFinished:
			event = eventOf(DoublePressFinished)
			h.finished = true
			done = true
		}

		return nil
	})

	return event, done
}

func (t *Tracker) emit(prefix string, handler Handler, event *GestureEvent) error {
	if event == nil {
		return nil
	}

	log.Printf("%s: %s", prefix, *event)

	return handler.HandleGesture(t.remote, t.button, *event)
}

func eventOf(e GestureEvent) *GestureEvent {
	return &e
}
