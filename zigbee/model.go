// Package zigbee tracks zigbee2mqtt groups and their last known state, and
// publishes group commands over MQTT.
package zigbee

import (
	"fmt"
	"time"
)

type OnOff string

const (
	On  OnOff = "ON"
	Off OnOff = "OFF"
)

// Brightness is a zigbee2mqtt brightness level.
type Brightness int

const (
	BrightnessMin Brightness = 0
	BrightnessMax Brightness = 254

	// One remote-button notch. Four presses go from fully off to fully on.
	brightnessStep Brightness = 64
)

// NextHigher returns the brightness one notch up, clamped to the maximum.
func (b Brightness) NextHigher() Brightness {
	if b > BrightnessMax-brightnessStep {
		return BrightnessMax
	}
	return b + brightnessStep
}

// NextLower returns the brightness one notch down, clamped to the minimum.
func (b Brightness) NextLower() Brightness {
	if b < BrightnessMin+brightnessStep {
		return BrightnessMin
	}
	return b - brightnessStep
}

type Scene struct {
	ID   int
	Name string
}

// Group is one zigbee2mqtt group as reported on <prefix>/bridge/groups.
type Group struct {
	ID           int
	FriendlyName string
	Scenes       []Scene
}

// Topic is the MQTT topic the group's state is published on.
func (g Group) Topic(prefix string) string {
	return fmt.Sprintf("%s/%s", prefix, g.FriendlyName)
}

// GroupState is the last known state of a group. A nil Brightness or Scene
// means the value has never been observed (or, for scenes, has gone stale).
type GroupState struct {
	Brightness *Brightness
	State      OnOff
	Scene      *Scene
	UpdatedAt  time.Time
}

// GroupUpdate is a partial state observation. Nil fields supply nothing and
// leave the previous value in place during a merge.
type GroupUpdate struct {
	Brightness *Brightness
	State      *OnOff
	Scene      *Scene
}
