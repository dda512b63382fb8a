package caseta

import "fmt"

// GestureEvent is the classified outcome the watcher emits for a button.
type GestureEvent int

const (
	SinglePressCompleted GestureEvent = iota
	LongPressOngoing
	LongPressFinished
	DoublePressFinished
)

func (e GestureEvent) String() string {
	switch e {
	case SinglePressCompleted:
		return "single_press_completed"
	case LongPressOngoing:
		return "long_press_ongoing"
	case LongPressFinished:
		return "long_press_finished"
	case DoublePressFinished:
		return "double_press_finished"
	}
	return fmt.Sprintf("GestureEvent(%d)", int(e))
}

// IsLongPress reports whether e belongs to a long press, which most buttons
// treat as a no-op.
func (e GestureEvent) IsLongPress() bool {
	return e == LongPressOngoing || e == LongPressFinished
}

// Handler consumes classified gestures, typically by translating them into
// zigbee2mqtt group commands.
type Handler interface {
	HandleGesture(remote Remote, button ButtonID, event GestureEvent) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(remote Remote, button ButtonID, event GestureEvent) error

func (f HandlerFunc) HandleGesture(remote Remote, button ButtonID, event GestureEvent) error {
	return f(remote, button, event)
}
