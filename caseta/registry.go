package caseta

import (
	"fmt"
	"log"

	"caseta2mqtt/locked"
	"caseta2mqtt/shutdown"
)

// Registry routes inbound button actions to the tracker for that remote,
// creating a fresh tracker (and spawning its watcher) when the existing one
// is missing, finished, or timed out. At most one tracker is ever live per
// remote.
type Registry struct {
	handler Handler
	latch   *shutdown.Latch
	timings Timings

	trackers *locked.Map[string, *Tracker]
}

func NewRegistry(handler Handler, latch *shutdown.Latch, timings Timings) *Registry {
	return &Registry{
		handler:  handler,
		latch:    latch,
		timings:  timings,
		trackers: locked.NewMap[string, *Tracker](),
	}
}

// Deliver applies one press/release signal for a button on a remote. The
// reuse-or-replace decision and the store-back of the tracker happen under
// the remote's cell lock, so two concurrent actions for the same remote can
// never both create a tracker. A fresh tracker is always built for the
// button carried by the action that triggered creation.
func (r *Registry) Deliver(remote Remote, button ButtonID, action ButtonAction) error {
	log.Printf("got a button event: remote (name: %s, id: %s), button: %s, action: %s", remote.Name, remote.ID, button, action)

	return r.trackers.Do(remote.ID, func(current **Tracker) error {
		if *current != nil && !(*current).Finished() && !(*current).TimedOut() {
			return (*current).Increment(action)
		}

		tracker := NewTracker(remote, button, r.timings)
		if err := tracker.Increment(action); err != nil {
			return err
		}
		*current = tracker

		r.latch.Go(fmt.Sprintf("button watcher (remote: %s, button: %s)", remote.ID, button), func() error {
			return tracker.Watch(r.handler)
		})

		return nil
	})
}
