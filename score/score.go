// Package score holds the in-memory notation tree the engine operates on.
// Trees are produced by a parsing collaborator (see midifile) and mutated in
// place only by the reconcile stage; projection treats them as read-only.
package score

import "errors"

var (
	ErrEmptyScore = errors.New("score has no parts")
	ErrNotAScore  = errors.New("input is not a multi-part score")
)

type Score struct {
	Parts      []*Part
	Resolution int // ticks per quarter note
	Title      string
	Artist     string
}

func (s *Score) Validate() error {
	if len(s.Parts) == 0 {
		return ErrEmptyScore
	}
	if len(s.Parts) < 2 {
		return ErrNotAScore
	}
	return nil
}

// PartContext carries a resolved score plus the right/left hand part indices.
// It is passed explicitly to every reconciler and builder instead of being
// inherited state.
type PartContext struct {
	Score      *Score
	RightIndex int
	LeftIndex  int
}

func (c PartContext) Right() *Part {
	return c.Score.Parts[c.RightIndex]
}

func (c PartContext) Left() *Part {
	return c.Score.Parts[c.LeftIndex]
}
