// Package tempo converts musical offsets into wall-clock seconds under
// piecewise tempo.
package tempo

import (
	"errors"
	"fmt"

	"github.com/jsphweid/pianovision/constants"
	"github.com/jsphweid/pianovision/score"
)

var ErrNoMetronomeForOffset = errors.New("no metronome for offset")

// Segment is one tempo value valid over [Lower, Upper] in quarter lengths.
type Segment struct {
	BPM   float64
	Lower float64
	Upper float64
}

func (s Segment) InBounds(offset float64) bool {
	return s.Lower <= offset && offset <= s.Upper
}

// Index holds one hand's ordered, contiguous tempo segments.
type Index struct {
	segments []Segment
}

// NewIndex builds the segment list from a part's tempo marks. A markless part
// gets a single default-tempo segment. A first mark past offset 0 leaves the
// leading span at the default tempo, matching how the notation parser treats
// an unmarked opening.
func NewIndex(p *score.Part) *Index {
	end := p.Duration()
	changes := p.TempoChanges()
	if len(changes) == 0 {
		return &Index{segments: []Segment{{BPM: constants.DefaultTempo, Lower: 0, Upper: end}}}
	}

	var segments []Segment
	if changes[0].Offset > 0 {
		segments = append(segments, Segment{BPM: constants.DefaultTempo, Lower: 0, Upper: changes[0].Offset})
	}
	for i, c := range changes {
		upper := end
		if i+1 < len(changes) {
			upper = changes[i+1].Offset
		}
		if upper < c.Offset {
			upper = c.Offset
		}
		segments = append(segments, Segment{BPM: c.BPM, Lower: c.Offset, Upper: upper})
	}
	return &Index{segments: segments}
}

func (x *Index) Segments() []Segment {
	return x.segments
}

// ForOffset finds the segment governing an offset. A single segment applies
// unconditionally, and the final segment is open-ended upward so durations
// rounded past the last bar line still resolve.
func (x *Index) ForOffset(offset float64) (Segment, error) {
	if len(x.segments) == 1 {
		return x.segments[0], nil
	}
	for _, s := range x.segments {
		if s.InBounds(offset) {
			return s, nil
		}
	}
	last := x.segments[len(x.segments)-1]
	if offset >= last.Lower {
		return last, nil
	}
	return Segment{}, fmt.Errorf("%w: %v", ErrNoMetronomeForOffset, offset)
}

// Seconds converts an absolute offset to seconds, composing across segment
// boundaries rather than applying a single global multiplier.
func (x *Index) Seconds(offset float64) (float64, error) {
	target, err := x.ForOffset(offset)
	if err != nil {
		return 0, err
	}
	var sec float64
	for _, s := range x.segments {
		if s == target {
			return sec + quartersToSeconds(offset-s.Lower, s.BPM), nil
		}
		sec += quartersToSeconds(s.Upper-s.Lower, s.BPM)
	}
	return sec, nil
}

// DurationSeconds converts a span starting at offset to seconds.
func (x *Index) DurationSeconds(offset, quarters float64) (float64, error) {
	start, err := x.Seconds(offset)
	if err != nil {
		return 0, err
	}
	end, err := x.Seconds(offset + quarters)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

func quartersToSeconds(quarters, bpm float64) float64 {
	return quarters * 60.0 / bpm
}
