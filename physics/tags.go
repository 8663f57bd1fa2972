package physics

import (
	"fmt"
	"strings"
)

// Tag is the gameplay role of a body. It is the only meaning that crosses
// from the simulation into gameplay.
type Tag int

const (
	TagNone Tag = iota
	TagNoInteraction
	TagLeftKicker
	TagRightKicker
	_
	TagScore
	TagImpulser
	TagCharacter
	TagSpring
	TagDrain
	TagStartGate
	TagBumper
)

// Significant reports whether contacts on this tag are delivered to listeners.
func (t Tag) Significant() bool {
	return t >= TagLeftKicker
}

var tagNames = map[Tag]string{
	TagNone:          "none",
	TagNoInteraction: "no_interaction",
	TagLeftKicker:    "left_kicker",
	TagRightKicker:   "right_kicker",
	TagScore:         "score",
	TagImpulser:      "impulser",
	TagCharacter:     "character",
	TagSpring:        "spring",
	TagDrain:         "drain",
	TagStartGate:     "start_gate",
	TagBumper:        "bumper",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// ParseTag resolves a tag name as written in table files.
func ParseTag(name string) (Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TagNone, nil
	}
	for tag, n := range tagNames {
		if n == name {
			return tag, nil
		}
	}
	return TagNone, fmt.Errorf("physics: unknown tag %q", name)
}

// BodyType selects how the simulation moves a body.
type BodyType int

const (
	Static BodyType = iota
	Dynamic
	Kinematic
)

func (bt BodyType) String() string {
	switch bt {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	default:
		return "static"
	}
}

// ParseBodyType resolves a body type name as written in table files.
func ParseBodyType(name string) (BodyType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "static":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	case "kinematic":
		return Kinematic, nil
	}
	return Static, fmt.Errorf("physics: unknown body type %q", name)
}
