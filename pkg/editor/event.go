package editor

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by Dispatch for an unrecognized event type.
var ErrUnknownEvent = errors.New("editor: unknown event type")

// EventType names an input event.
type EventType string

// Input event types. The names match the DOM events they stand in for.
const (
	EventPointerDown  EventType = "down"
	EventPointerMove  EventType = "move"
	EventPointerUp    EventType = "up"
	EventPointerLeave EventType = "leave"
	EventTouchStart   EventType = "touchstart"
	EventTouchMove    EventType = "touchmove"
	EventTouchEnd     EventType = "touchend"
	EventWheel        EventType = "wheel"
	EventPinch        EventType = "pinch"
	EventPercent      EventType = "percent"
	EventReset        EventType = "reset"
	EventReupload     EventType = "reupload"
)

// Event is a serializable input event. Gesture scripts and the websocket
// protocol both carry events in this shape.
type Event struct {
	Type    EventType `yaml:"type" json:"type"`
	X       float64   `yaml:"x,omitempty" json:"x,omitempty"`
	Y       float64   `yaml:"y,omitempty" json:"y,omitempty"`
	Touches []Point   `yaml:"touches,omitempty" json:"touches,omitempty"`
	DeltaY  float64   `yaml:"delta_y,omitempty" json:"deltaY,omitempty"`
	Ratio   float64   `yaml:"ratio,omitempty" json:"ratio,omitempty"`
	Percent float64   `yaml:"percent,omitempty" json:"percent,omitempty"`
	Repeat  int       `yaml:"repeat,omitempty" json:"repeat,omitempty"` // applied once when <= 1
}

// Dispatch applies ev to the session. Like the direct input methods it is a
// no-op unless the session is Ready, except for reupload.
func (s *Session) Dispatch(ev Event) error {
	n := ev.Repeat
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if err := s.dispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) dispatch(ev Event) error {
	switch ev.Type {
	case EventPointerDown:
		s.PointerDown(ev.X, ev.Y)
	case EventPointerMove:
		s.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		s.PointerUp()
	case EventPointerLeave:
		s.PointerLeave()
	case EventTouchStart:
		s.TouchStart(TouchInput(ev.Touches))
	case EventTouchMove:
		s.TouchMove(TouchInput(ev.Touches))
	case EventTouchEnd:
		s.TouchEnd()
	case EventWheel:
		s.Wheel(ev.DeltaY)
	case EventPinch:
		s.Pinch(ev.Ratio)
	case EventPercent:
		s.SetPercent(ev.Percent)
	case EventReset:
		s.Reset()
	case EventReupload:
		s.Reupload()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}
