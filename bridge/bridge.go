// Package bridge consumes button events from the Lutron bridge adapter's
// SSE stream and feeds them into the gesture registry. The LEAP connection
// to the physical bridge lives in the adapter service, not here.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/r3labs/sse/v2"

	"caseta2mqtt/caseta"
)

type Config struct {
	URL string `yaml:"url" envconfig:"BRIDGE_URL"`
}

// Deliverer routes one button action; the caseta registry implements it.
type Deliverer interface {
	Deliver(remote caseta.Remote, button caseta.ButtonID, action caseta.ButtonAction) error
}

// buttonEvent is one frame on the adapter's event stream.
type buttonEvent struct {
	RemoteID   string `json:"remote_id"`
	RemoteName string `json:"remote_name"`
	RemoteType string `json:"remote_type"`
	Button     int    `json:"button_number"`
	Action     string `json:"action"`
}

type Bridge struct {
	Events chan *sse.Event

	client *sse.Client
}

// Connect subscribes to the adapter's event stream.
func Connect(config Config) (*Bridge, error) {
	bridge := &Bridge{
		Events: make(chan *sse.Event),
		client: sse.NewClient(config.URL),
	}

	if err := bridge.client.SubscribeChanRaw(bridge.Events); err != nil {
		return nil, err
	}

	return bridge, nil
}

// Listen parses incoming frames and routes them. A malformed frame or a
// rejected action is fatal: it means the upstream is desynchronized, and the
// caller converts the error into a shutdown signal.
func (b *Bridge) Listen(registry Deliverer) error {
	for event := range b.Events {
		// Heartbeat frames carry no data.
		if len(event.Data) == 0 {
			continue
		}

		remote, button, action, err := parseButtonEvent(event.Data)
		if err != nil {
			return err
		}

		if err := registry.Deliver(remote, button, action); err != nil {
			return err
		}
	}

	return fmt.Errorf("bridge event stream closed")
}

func parseButtonEvent(data []byte) (caseta.Remote, caseta.ButtonID, caseta.ButtonAction, error) {
	var frame buttonEvent
	if err := json.Unmarshal(data, &frame); err != nil {
		return caseta.Remote{}, 0, 0, fmt.Errorf("button event frame: %w", err)
	}

	button, err := caseta.ButtonIDFromInt(frame.Button)
	if err != nil {
		return caseta.Remote{}, 0, 0, err
	}

	action, err := caseta.ParseButtonAction(frame.Action)
	if err != nil {
		return caseta.Remote{}, 0, 0, err
	}

	remote := caseta.Remote{
		ID:   frame.RemoteID,
		Name: frame.RemoteName,
		Kind: caseta.RemoteKind(frame.RemoteType),
	}

	return remote, button, action, nil
}
