package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/avatarcrop/pkg/editor"
)

// GestureScript is a recorded editing session replayed by the crop command.
//
//	gestures:
//	  - {type: down, x: 600, y: 600}
//	  - {type: move, x: 650, y: 630}
//	  - {type: up}
//	  - {type: wheel, delta_y: -100, repeat: 3}
type GestureScript struct {
	Gestures []editor.Event `yaml:"gestures"`
}

// LoadGestures reads a gesture script. An empty path yields no gestures.
func LoadGestures(path string) ([]editor.Event, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	events, err := ParseGestures(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return events, nil
}

// ParseGestures parses a gesture script, either a mapping with a gestures
// key or a bare list of events.
func ParseGestures(data []byte) ([]editor.Event, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var events []editor.Event
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&events); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var script GestureScript
		if err := root.Decode(&script); err != nil {
			return nil, err
		}
		events = script.Gestures
	default:
		return nil, fmt.Errorf("line %d: expected a list of gestures", root.Line)
	}

	for i, ev := range events {
		if ev.Type == "" {
			return nil, fmt.Errorf("gesture %d: missing type", i+1)
		}
	}
	return events, nil
}
