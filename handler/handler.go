// Package handler translates classified button gestures into zigbee2mqtt
// group commands.
package handler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"caseta2mqtt/caseta"
	"caseta2mqtt/zigbee"
)

// ErrUnknownRoom is returned when a remote cannot be matched to any
// zigbee2mqtt group, neither by name nor through the configured mapping.
var ErrUnknownRoom = errors.New("no zigbee2mqtt group assigned to remote")

// Zigbee is the group command surface the handler drives.
type Zigbee interface {
	Groups() map[string]zigbee.Group
	TurnOn(zigbee.Group) error
	TurnOff(zigbee.Group) error
	SetBrightness(zigbee.Group, zigbee.Brightness) error
	RecallScene(zigbee.Group, zigbee.Scene) error
}

// Handler is the gesture consumer wired behind the button watchers.
type Handler struct {
	zigbee Zigbee
	states *zigbee.StateManager
	rooms  map[string]string
	now    func() time.Time

	// Remote-to-group resolutions barely ever change; cache them.
	resolved *ttlcache.Cache[string, string]
}

// New builds a handler. rooms maps a remote name to a group friendly name
// for remotes that are not named after their group.
func New(z Zigbee, states *zigbee.StateManager, rooms map[string]string) *Handler {
	h := &Handler{
		zigbee: z,
		states: states,
		rooms:  rooms,
		now:    time.Now,
		resolved: ttlcache.New(
			ttlcache.WithTTL[string, string](30 * time.Minute),
		),
	}

	go h.resolved.Start()

	return h
}

var _ caseta.Handler = (*Handler)(nil)

func (h *Handler) HandleGesture(remote caseta.Remote, button caseta.ButtonID, event caseta.GestureEvent) error {
	group, err := h.resolve(remote.Name)
	if err != nil {
		return err
	}

	switch button {
	case caseta.ButtonPowerOn:
		if event.IsLongPress() {
			return nil
		}
		return h.zigbee.TurnOn(group)

	case caseta.ButtonPowerOff:
		if event.IsLongPress() {
			return nil
		}
		return h.zigbee.TurnOff(group)

	case caseta.ButtonFavorite:
		if event.IsLongPress() {
			return nil
		}
		return h.recallScene(group, event)

	case caseta.ButtonIncrease, caseta.ButtonDecrease:
		// Long-press notifications step too, so holding the button keeps
		// dimming.
		return h.stepBrightness(group, button, event)
	}

	log.Printf("no handling for button %s (%s) yet", button, event)
	return nil
}

// resolve finds the zigbee2mqtt group for a remote: a group with the exact
// remote name wins, then the configured remote-to-room mapping.
func (h *Handler) resolve(remoteName string) (zigbee.Group, error) {
	groups := h.zigbee.Groups()

	if item := h.resolved.Get(remoteName); item != nil {
		if group, ok := groups[item.Value()]; ok {
			return group, nil
		}
	}

	if group, ok := groups[remoteName]; ok {
		h.resolved.Set(remoteName, remoteName, ttlcache.DefaultTTL)
		return group, nil
	}

	if mapped, ok := h.rooms[remoteName]; ok {
		if group, ok := groups[mapped]; ok {
			h.resolved.Set(remoteName, mapped, ttlcache.DefaultTTL)
			return group, nil
		}
	}

	return zigbee.Group{}, fmt.Errorf("%w: %s", ErrUnknownRoom, remoteName)
}

// recallScene cycles through the group's scene list: a single press moves
// forward, a double press moves back. Recall and state record happen in one
// critical section so a concurrent reader never sees a half-applied change.
func (h *Handler) recallScene(group zigbee.Group, event caseta.GestureEvent) error {
	if len(group.Scenes) == 0 {
		log.Printf("group %s has no scenes configured", group.FriendlyName)
		return nil
	}

	return h.states.Do(group.FriendlyName, func(state **zigbee.GroupState) error {
		var current *zigbee.Scene
		if *state != nil {
			current = (*state).Scene
		}

		previous, next := neighborScenes(group.Scenes, current)
		scene := next
		if event == caseta.DoublePressFinished {
			scene = previous
		}

		if err := h.zigbee.RecallScene(group, scene); err != nil {
			return err
		}

		// A recall moves brightness to wherever the scene puts it, so the
		// old reading is no longer meaningful.
		*state = &zigbee.GroupState{
			State:     zigbee.On,
			Scene:     &scene,
			UpdatedAt: h.now(),
		}
		return nil
	})
}

// stepBrightness nudges the group one notch up or down, two on a double
// press. A group that is off (or was never observed) is just turned on.
func (h *Handler) stepBrightness(group zigbee.Group, button caseta.ButtonID, event caseta.GestureEvent) error {
	return h.states.Do(group.FriendlyName, func(state **zigbee.GroupState) error {
		if *state == nil || (*state).State != zigbee.On {
			return h.zigbee.TurnOn(group)
		}

		rangeEnd := zigbee.BrightnessMax
		step := zigbee.Brightness.NextHigher
		if button == caseta.ButtonDecrease {
			rangeEnd = zigbee.BrightnessMin
			step = zigbee.Brightness.NextLower
		}

		var brightness zigbee.Brightness
		if (*state).Brightness == nil {
			brightness = rangeEnd
		} else {
			brightness = step(*(*state).Brightness)
		}
		if event == caseta.DoublePressFinished {
			brightness = step(brightness)
		}

		if err := h.zigbee.SetBrightness(group, brightness); err != nil {
			return err
		}

		*state = &zigbee.GroupState{
			Brightness: &brightness,
			State:      zigbee.On,
			Scene:      (*state).Scene,
			UpdatedAt:  h.now(),
		}
		return nil
	})
}

// neighborScenes picks the scenes before and after the current one,
// wrapping at both ends. With no current scene both neighbors resolve to
// the first configured scene.
func neighborScenes(scenes []zigbee.Scene, current *zigbee.Scene) (previous, next zigbee.Scene) {
	index := -1
	if current != nil {
		for i, scene := range scenes {
			if scene == *current {
				index = i
				break
			}
		}
	}

	if index < 0 || len(scenes) == 1 {
		return scenes[0], scenes[0]
	}

	switch index {
	case len(scenes) - 1:
		return scenes[index-1], scenes[0]
	case 0:
		return scenes[len(scenes)-1], scenes[1]
	default:
		return scenes[index-1], scenes[index+1]
	}
}
