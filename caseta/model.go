// Package caseta classifies the raw press/release signals of Lutron Caseta
// Pico remotes into gestures: single press, long press, or double press.
package caseta

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalTransition is returned when a button action arrives that is not
// legal for the current state, e.g. a release while awaiting a press. It
// means the upstream bridge is desynchronized and tracking cannot be trusted.
var ErrIllegalTransition = errors.New("illegal button state transition")

type ButtonAction int

const (
	Press ButtonAction = iota
	Release
)

func (a ButtonAction) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	}
	return fmt.Sprintf("ButtonAction(%d)", int(a))
}

// ParseButtonAction maps the bridge's wire strings onto a ButtonAction.
func ParseButtonAction(value string) (ButtonAction, error) {
	switch strings.ToLower(value) {
	case "press":
		return Press, nil
	case "release":
		return Release, nil
	}
	return 0, fmt.Errorf("unknown button action %q", value)
}

// ButtonID numbers are consistent across both the 2-button and the 3-button
// raise/lower Pico models.
type ButtonID int

const (
	ButtonPowerOn  ButtonID = 0
	ButtonFavorite ButtonID = 1
	ButtonPowerOff ButtonID = 2
	ButtonIncrease ButtonID = 3
	ButtonDecrease ButtonID = 4
)

func (b ButtonID) String() string {
	switch b {
	case ButtonPowerOn:
		return "power_on"
	case ButtonFavorite:
		return "favorite"
	case ButtonPowerOff:
		return "power_off"
	case ButtonIncrease:
		return "increase"
	case ButtonDecrease:
		return "decrease"
	}
	return fmt.Sprintf("ButtonID(%d)", int(b))
}

// ButtonIDFromInt validates a raw button number from the bridge.
func ButtonIDFromInt(value int) (ButtonID, error) {
	if value < int(ButtonPowerOn) || value > int(ButtonDecrease) {
		return 0, fmt.Errorf("unknown button number %d", value)
	}
	return ButtonID(value), nil
}

// RemoteKind is the Pico model reported by the bridge.
type RemoteKind string

const (
	Pico2Button           RemoteKind = "Pico2Button"
	Pico3ButtonRaiseLower RemoteKind = "Pico3ButtonRaiseLower"
)

// Remote is one Pico remote in the bridge topology.
type Remote struct {
	ID   string
	Name string
	Kind RemoteKind
}

// ButtonState is the progression of one button's click sequence. The order
// is total: each state advances to the next, and nothing comes after
// StateDoublePressFinished.
type ButtonState int

const (
	StateNotPressed ButtonState = iota
	StateFirstPressAwaitingRelease
	StateFirstPressAndFirstRelease
	StateSecondPressAwaitingRelease
	StateDoublePressFinished
)

func (s ButtonState) String() string {
	switch s {
	case StateNotPressed:
		return "not_pressed"
	case StateFirstPressAwaitingRelease:
		return "first_press_awaiting_release"
	case StateFirstPressAndFirstRelease:
		return "first_press_and_first_release"
	case StateSecondPressAwaitingRelease:
		return "second_press_awaiting_release"
	case StateDoublePressFinished:
		return "double_press_finished"
	}
	return fmt.Sprintf("ButtonState(%d)", int(s))
}

// Next returns the state one position later in the order.
func (s ButtonState) Next() (ButtonState, error) {
	if s == StateDoublePressFinished {
		return s, fmt.Errorf("%w: there is no state after finishing a double press", ErrIllegalTransition)
	}
	return s + 1, nil
}

func (s ButtonState) awaitingPress() bool {
	return s == StateNotPressed || s == StateFirstPressAndFirstRelease
}

func (s ButtonState) awaitingRelease() bool {
	return s == StateFirstPressAwaitingRelease || s == StateSecondPressAwaitingRelease
}

// ValidFor reports whether action is a legal transition out of s.
func (s ButtonState) ValidFor(action ButtonAction) bool {
	return (s.awaitingPress() && action == Press) || (s.awaitingRelease() && action == Release)
}
