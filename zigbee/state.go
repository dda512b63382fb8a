package zigbee

import (
	"time"

	"caseta2mqtt/locked"
)

// StateManager holds the last known state per group behind the same
// two-level locking as the button trackers: the outer map lock only guards
// the key set, each group's state has its own cell lock, and a merge is
// atomic with respect to concurrent readers of that group.
type StateManager struct {
	sceneTTL time.Duration
	now      func() time.Time

	groups *locked.Map[string, *GroupState]
}

func NewStateManager(sceneTTL time.Duration) *StateManager {
	return &StateManager{
		sceneTTL: sceneTTL,
		now:      time.Now,
		groups:   locked.NewMap[string, *GroupState](),
	}
}

// Update merges a partial observation into the group's state. An empty cell
// is seeded from the update. A scene older than the TTL is cleared before
// the merge, so an update that carries no scene leaves a stale group without
// one. Every merge stamps the current time.
func (m *StateManager) Update(name string, update GroupUpdate) {
	_ = m.groups.Do(name, func(state **GroupState) error {
		now := m.now()

		merged := GroupState{UpdatedAt: now}
		if *state != nil {
			merged.Brightness = (*state).Brightness
			merged.State = (*state).State
			merged.Scene = (*state).Scene
			if now.Sub((*state).UpdatedAt) > m.sceneTTL {
				merged.Scene = nil
			}
		}

		if update.Brightness != nil {
			merged.Brightness = update.Brightness
		}
		if update.State != nil {
			merged.State = *update.State
		}
		if update.Scene != nil {
			merged.Scene = update.Scene
		}

		*state = &merged
		return nil
	})
}

// Do runs fn with exclusive access to the group's state slot. The slot is
// nil when nothing has been observed yet; fn may replace it. Used for
// read-modify-write sections that must publish and record atomically.
func (m *StateManager) Do(name string, fn func(state **GroupState) error) error {
	return m.groups.Do(name, fn)
}

// Get returns a copy of the group's state, or false when none is known.
func (m *StateManager) Get(name string) (GroupState, bool) {
	cell, ok := m.groups.Get(name)
	if !ok {
		return GroupState{}, false
	}

	var copied *GroupState
	_ = cell.Do(func(state **GroupState) error {
		if *state != nil {
			s := **state
			copied = &s
		}
		return nil
	})

	if copied == nil {
		return GroupState{}, false
	}
	return *copied, true
}

// Snapshot returns a copy of every known group state.
func (m *StateManager) Snapshot() map[string]GroupState {
	snapshot := make(map[string]GroupState)
	for _, name := range m.groups.Keys() {
		if state, ok := m.Get(name); ok {
			snapshot[name] = state
		}
	}
	return snapshot
}
