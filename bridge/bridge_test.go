package bridge

import (
	"testing"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseta2mqtt/caseta"
)

type delivery struct {
	remote caseta.Remote
	button caseta.ButtonID
	action caseta.ButtonAction
}

type fakeRegistry struct {
	deliveries []delivery
	err        error
}

func (f *fakeRegistry) Deliver(remote caseta.Remote, button caseta.ButtonID, action caseta.ButtonAction) error {
	f.deliveries = append(f.deliveries, delivery{remote, button, action})
	return f.err
}

func TestParseButtonEvent(t *testing.T) {
	data := []byte(`{
		"remote_id": "42",
		"remote_name": "living_room",
		"remote_type": "Pico3ButtonRaiseLower",
		"button_number": 2,
		"action": "release"
	}`)

	remote, button, action, err := parseButtonEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "42", remote.ID)
	assert.Equal(t, "living_room", remote.Name)
	assert.Equal(t, caseta.Pico3ButtonRaiseLower, remote.Kind)
	assert.Equal(t, caseta.ButtonPowerOff, button)
	assert.Equal(t, caseta.Release, action)
}

func TestParseButtonEventRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"unknown button", `{"remote_id": "42", "button_number": 9, "action": "press"}`},
		{"unknown action", `{"remote_id": "42", "button_number": 0, "action": "held"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := parseButtonEvent([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestListenRoutesFrames(t *testing.T) {
	bridge := &Bridge{Events: make(chan *sse.Event, 3)}
	registry := &fakeRegistry{}

	bridge.Events <- &sse.Event{Data: []byte(`{"remote_id": "42", "remote_name": "living_room", "button_number": 0, "action": "press"}`)}
	bridge.Events <- &sse.Event{Data: nil} // heartbeat
	bridge.Events <- &sse.Event{Data: []byte(`{"remote_id": "42", "remote_name": "living_room", "button_number": 0, "action": "release"}`)}
	close(bridge.Events)

	err := bridge.Listen(registry)
	require.Error(t, err, "a closed stream is a failure")

	require.Len(t, registry.deliveries, 2)
	assert.Equal(t, caseta.Press, registry.deliveries[0].action)
	assert.Equal(t, caseta.Release, registry.deliveries[1].action)
}

func TestListenStopsOnRejectedAction(t *testing.T) {
	bridge := &Bridge{Events: make(chan *sse.Event, 1)}
	registry := &fakeRegistry{err: caseta.ErrIllegalTransition}

	bridge.Events <- &sse.Event{Data: []byte(`{"remote_id": "42", "remote_name": "living_room", "button_number": 0, "action": "release"}`)}

	err := bridge.Listen(registry)
	require.ErrorIs(t, err, caseta.ErrIllegalTransition)
}
