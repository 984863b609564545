// Package model holds the output records produced by the builders. These are
// the shapes the serialization collaborator writes out; field names follow
// the PianoVision JSON schema.
package model

import "fmt"

type Hand string

const (
	HandRight Hand = "right"
	HandLeft  Hand = "left"
)

// Abbrev is the note-id prefix for the hand.
func (h Hand) Abbrev() string {
	if h == HandLeft {
		return "l"
	}
	return "r"
}

func ParseHand(s string) (Hand, error) {
	switch s {
	case "r", "right", "righthand", "right_hand":
		return HandRight, nil
	case "l", "left", "lefthand", "left_hand":
		return HandLeft, nil
	}
	return "", fmt.Errorf("invalid hand %q", s)
}

// Finger numbering: 1 thumb through 5 pinky, 0 unset.
type Finger int

const (
	FingerUnset Finger = iota
	FingerThumb
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
)

func (f Finger) IsSet() bool {
	return f >= FingerThumb && f <= FingerPinky
}
