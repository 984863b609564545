package builder

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/score"
	"github.com/jsphweid/pianovision/tempo"
)

// buildNote projects one resolved note into an output record. Irregular
// durations are replaced with the nearest canonical length before any tick or
// second arithmetic so output durations always come from the canonical set.
func (b *MeasureBuilder) buildNote(
	n *score.Note,
	m *score.Measure,
	hand model.Hand,
	idx *tempo.Index,
	finger model.Finger,
) (*model.Note, error) {
	quarters := n.Quarters
	lengthType := model.NoteLengthFromQuarters(quarters)
	if lengthType == model.NoteLengthComplex {
		lengthType, quarters = model.NearestNoteLength(quarters)
	}

	absOffset := m.Offset + n.Offset
	start, err := idx.Seconds(absOffset)
	if err != nil {
		return nil, fmt.Errorf("%s hand measure %d: %w", hand, m.Number, err)
	}
	end, err := idx.Seconds(absOffset + quarters)
	if err != nil {
		return nil, fmt.Errorf("%s hand measure %d: %w", hand, m.Number, err)
	}

	if n.Pitch.Midi < b.minPitch {
		b.minPitch = n.Pitch.Midi
	}
	if n.Pitch.Midi > b.maxPitch {
		b.maxPitch = n.Pitch.Midi
	}

	measureNumber := m.Number - 1
	measureFraction := n.Offset / m.Duration
	note := &model.Note{
		ID:             hand.Abbrev() + strconv.Itoa(b.noteCount),
		Midi:           n.Pitch.Midi,
		NoteName:       n.Pitch.NameWithOctave(),
		NotePitch:      n.Pitch.Name,
		Octave:         n.Pitch.Octave,
		Start:          start,
		End:            end,
		Duration:       end - start,
		DurationTicks:  int(float64(b.Resolution) * quarters),
		TicksStart:     int(float64(b.Resolution) * absOffset),
		Velocity:       n.Velocity,
		MeasureBars:    float64(measureNumber) + measureFraction,
		NoteLengthType: lengthType,
		Group:          -1,
		MeasureInd:     measureNumber,
		NoteMeasureInd: b.measureNoteCount,
		Finger:         finger,
	}
	b.noteCount++
	b.measureNoteCount++
	return note, nil
}
