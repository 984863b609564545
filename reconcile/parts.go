// Package reconcile normalizes the two hands of a score so that downstream
// projection can assume equal measure counts and durations.
package reconcile

import (
	"errors"
	"log/slog"

	"github.com/jsphweid/pianovision/score"
)

var (
	ErrUnreconcilableTimeSignatures = errors.New("both hands carry distinct non-default time signatures")
	ErrNoMeasureAtIndex             = errors.New("no measure at index")
)

// AutoDetect asks ResolveParts to locate a hand by clef instead of taking an
// explicit index.
const AutoDetect = -1

// ResolveParts maps score parts to hands. Explicit indices win; otherwise the
// first treble-clef part becomes the right hand and the first bass-clef part
// the left. A missing clef falls back to part 0/1 with a warning.
func ResolveParts(s *score.Score, rightIndex, leftIndex int) (score.PartContext, error) {
	if err := s.Validate(); err != nil {
		return score.PartContext{}, err
	}
	if rightIndex == AutoDetect {
		rightIndex = findPartWithClef(s, score.ClefTreble)
		if rightIndex == AutoDetect {
			slog.Warn("no treble clef found, defaulting right hand to part 0")
			rightIndex = 0
		}
	}
	if leftIndex == AutoDetect {
		leftIndex = findPartWithClef(s, score.ClefBass)
		if leftIndex == AutoDetect {
			slog.Warn("no bass clef found, defaulting left hand to part 1")
			leftIndex = 1
		}
	}
	if rightIndex >= len(s.Parts) || leftIndex >= len(s.Parts) {
		return score.PartContext{}, score.ErrNotAScore
	}
	return score.PartContext{Score: s, RightIndex: rightIndex, LeftIndex: leftIndex}, nil
}

func findPartWithClef(s *score.Score, c score.Clef) int {
	for i, p := range s.Parts {
		if p.HasClef(c) {
			return i
		}
	}
	return AutoDetect
}
