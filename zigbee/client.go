package zigbee

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/kr/pretty"

	"caseta2mqtt/locked"
	"caseta2mqtt/shutdown"
)

// Client mirrors the zigbee2mqtt group topology and group states, and
// publishes group commands. One instance serves the whole process.
type Client struct {
	client paho.Client
	prefix string
	states *StateManager
	latch  *shutdown.Latch

	groups *locked.Value[map[string]Group]
}

func NewClient(client paho.Client, prefix string, states *StateManager, latch *shutdown.Latch) *Client {
	return &Client{
		client: client,
		prefix: prefix,
		states: states,
		latch:  latch,
		groups: locked.NewValue(make(map[string]Group)),
	}
}

// Subscribe starts listening for the group list. Each reported group gets
// its own topic subscription and an initial state request. A failure inside
// a message handler trips the shutdown latch; a desynchronized broker is not
// something we recover from per event.
func (c *Client) Subscribe() error {
	topic := fmt.Sprintf("%s/bridge/groups", c.prefix)
	if token := c.client.Subscribe(topic, 1, c.groupsHandler); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	return nil
}

func (c *Client) groupsHandler(_ paho.Client, msg paho.Message) {
	groups, err := parseGroups(msg.Payload())
	if err != nil {
		c.latch.Signal(fmt.Errorf("zigbee groups payload: %w", err))
		return
	}

	pretty.Println(groups)

	byName := make(map[string]Group, len(groups))
	for _, group := range groups {
		byName[group.FriendlyName] = group

		if token := c.client.Subscribe(group.Topic(c.prefix), 1, c.stateHandler(group.FriendlyName)); token.Wait() && token.Error() != nil {
			c.latch.Signal(token.Error())
			return
		}
		if err := c.RequestState(group); err != nil {
			c.latch.Signal(err)
			return
		}
	}

	_ = c.groups.Do(func(current *map[string]Group) error {
		*current = byName
		return nil
	})
}

func (c *Client) stateHandler(name string) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		update, err := parseStateUpdate(msg.Payload())
		if err != nil {
			c.latch.Signal(fmt.Errorf("zigbee state payload for %q: %w", name, err))
			return
		}

		c.states.Update(name, update)
	}
}

// Groups returns the current group topology by friendly name.
func (c *Client) Groups() map[string]Group {
	groups := make(map[string]Group)
	_ = c.groups.Do(func(current *map[string]Group) error {
		for name, group := range *current {
			groups[name] = group
		}
		return nil
	})
	return groups
}

func (c *Client) TurnOn(group Group) error {
	return c.set(group, map[string]any{"state": string(On)})
}

func (c *Client) TurnOff(group Group) error {
	return c.set(group, map[string]any{"state": string(Off)})
}

func (c *Client) SetBrightness(group Group, brightness Brightness) error {
	return c.set(group, map[string]any{"brightness": int(brightness)})
}

func (c *Client) RecallScene(group Group, scene Scene) error {
	return c.set(group, map[string]any{"scene_recall": scene.ID})
}

// RequestState asks zigbee2mqtt to republish the group's current state.
func (c *Client) RequestState(group Group) error {
	return c.publish(fmt.Sprintf("%s/get", group.Topic(c.prefix)), map[string]any{"state": ""})
}

func (c *Client) set(group Group, payload map[string]any) error {
	return c.publish(fmt.Sprintf("%s/set", group.Topic(c.prefix)), payload)
}

func (c *Client) publish(topic string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if token := c.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	return nil
}
