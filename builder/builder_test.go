package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/score"
)

func note(midi int, offset, quarters float64) *score.Note {
	return &score.Note{Pitch: score.PitchFromMidi(midi), Offset: offset, Quarters: quarters}
}

// twoHandScore builds a reconciled score: both hands barred identically in
// 4/4 with a signature on the first measure.
func twoHandScore(rightMeasures, leftMeasures [][]score.GeneralNote) score.PartContext {
	build := func(measureContents [][]score.GeneralNote) *score.Part {
		p := &score.Part{}
		for i, els := range measureContents {
			m := &score.Measure{
				Number:   i + 1,
				Offset:   float64(i) * 4,
				Duration: 4,
				Elements: els,
			}
			if i == 0 {
				sig := score.DefaultTimeSignature
				m.TimeSig = &sig
			}
			p.Measures = append(p.Measures, m)
		}
		return p
	}
	s := &score.Score{
		Parts:      []*score.Part{build(rightMeasures), build(leftMeasures)},
		Resolution: 480,
	}
	return score.PartContext{Score: s, RightIndex: 0, LeftIndex: 1}
}

func TestBuildNoteProjection(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{
			{note(60, 0, 1), note(64, 1, 0.5)},
			{note(67, 2, 2)},
		},
		[][]score.GeneralNote{{}, {}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(len(tracks.Right), 2)

	first := tracks.Right[0].Notes[0]
	assert.Equal(first.ID, "r0")
	assert.Equal(first.Midi, 60)
	assert.Equal(first.NoteName, "C4")
	assert.Equal(first.NotePitch, "C")
	assert.Equal(first.Octave, 4)
	assert.Equal(first.Start, 0.0)
	assert.Equal(first.End, 0.5) // one quarter at the 120 default
	assert.Equal(first.DurationTicks, 480)
	assert.Equal(first.TicksStart, 0)
	assert.Equal(first.NoteLengthType, model.NoteLengthQuarter)
	assert.Equal(first.MeasureBars, 0.0)
	assert.Equal(first.MeasureInd, 0)
	assert.Equal(first.NoteMeasureInd, 0)
	assert.Equal(first.Velocity, 0.0)
	assert.Equal(first.Group, -1)
	assert.Equal(first.Finger, model.FingerUnset)

	second := tracks.Right[0].Notes[1]
	assert.Equal(second.ID, "r1")
	assert.Equal(second.MeasureBars, 0.25)
	assert.Equal(second.NoteMeasureInd, 1)

	third := tracks.Right[1].Notes[0]
	assert.Equal(third.ID, "r2")
	assert.Equal(third.MeasureInd, 1)
	assert.Equal(third.NoteMeasureInd, 0)
	assert.Equal(third.TicksStart, 480*6)
}

func TestNoteIDsRestartPerHand(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{note(60, 0, 1)}},
		[][]score.GeneralNote{{note(48, 0, 1), note(50, 1, 1)}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(tracks.Right[0].Notes[0].ID, "r0")
	assert.Equal(tracks.Left[0].Notes[0].ID, "l0")
	assert.Equal(tracks.Left[0].Notes[1].ID, "l1")
}

func TestMeasureTickContinuity(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{}, {}, {}},
		[][]score.GeneralNote{{}, {}, {}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	for i := 0; i+1 < len(tracks.Right); i++ {
		assert.Equal(tracks.Right[i].MeasureTicksEnd, tracks.Right[i+1].MeasureTicksStart)
		assert.Equal(tracks.Right[i].TimeEnd, tracks.Right[i+1].Time)
	}
}

func TestIrregularDurationSnapsToNearestCategory(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{note(60, 0, 0.583)}},
		[][]score.GeneralNote{{}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	n := tracks.Right[0].Notes[0]
	assert.Equal(n.NoteLengthType, model.NoteLengthEighth)
	// tick and second math uses the snapped duration
	assert.Equal(n.DurationTicks, 240)
	assert.Equal(n.End-n.Start, 0.25)
}

func TestTieFingeringPropagation(t *testing.T) {
	start := note(60, 0, 4)
	start.Tie = score.TieStart
	start.Finger = 2
	stop := note(60, 0, 1)
	stop.Tie = score.TieStop

	ctx := twoHandScore(
		[][]score.GeneralNote{{start}, {stop}},
		[][]score.GeneralNote{{}, {}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(tracks.Right[0].Notes[0].Finger, model.FingerIndex)
	assert.Equal(tracks.Right[1].Notes[0].Finger, model.FingerIndex)
}

func TestTieStartFingeringOverridesStop(t *testing.T) {
	start := note(60, 0, 4)
	start.Tie = score.TieStart
	start.Finger = 2
	stop := note(60, 0, 1)
	stop.Tie = score.TieStop
	stop.Finger = 3

	ctx := twoHandScore(
		[][]score.GeneralNote{{start}, {stop}},
		[][]score.GeneralNote{{}, {}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	// the start of the tied group owns the fingering
	assert.Equal(tracks.Right[1].Notes[0].Finger, model.FingerIndex)
	// the projection does not write back into the score
	assert.Equal(stop.Finger, 3)
}

func TestTieStopKeepsOwnFingeringWhenStartUnset(t *testing.T) {
	start := note(60, 0, 4)
	start.Tie = score.TieStart
	stop := note(60, 0, 1)
	stop.Tie = score.TieStop
	stop.Finger = 3

	ctx := twoHandScore(
		[][]score.GeneralNote{{start}, {stop}},
		[][]score.GeneralNote{{}, {}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(tracks.Right[1].Notes[0].Finger, model.FingerMiddle)
}

func TestChordFingeringDistribution(t *testing.T) {
	chord := score.NewChord(0, 1, []*score.Note{
		note(60, 0, 1), note(64, 0, 1), note(67, 0, 1),
	})
	chord.Fingers = []int{1, 3, 5}

	ctx := twoHandScore(
		[][]score.GeneralNote{{chord}},
		[][]score.GeneralNote{{}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	notes := tracks.Right[0].Notes
	assert.Equal(len(notes), 3)
	// fingers follow ascending pitch order
	assert.Equal(notes[0].Midi, 60)
	assert.Equal(notes[0].Finger, model.FingerThumb)
	assert.Equal(notes[1].Finger, model.FingerMiddle)
	assert.Equal(notes[2].Finger, model.FingerPinky)
	// min/max cover the whole chord
	assert.Equal(tracks.Right[0].Min, 60)
	assert.Equal(tracks.Right[0].Max, 67)
}

func TestChordWithoutFingeringsIsAllowed(t *testing.T) {
	chord := score.NewChord(0, 1, []*score.Note{note(60, 0, 1), note(64, 0, 1)})

	ctx := twoHandScore(
		[][]score.GeneralNote{{chord}},
		[][]score.GeneralNote{{}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	for _, n := range tracks.Right[0].Notes {
		assert.Equal(n.Finger, model.FingerUnset)
	}
}

func TestChordFingeringCountMismatch(t *testing.T) {
	chord := score.NewChord(0, 1, []*score.Note{
		note(60, 0, 1), note(64, 0, 1), note(67, 0, 1),
	})
	chord.Fingers = []int{1, 3}

	ctx := twoHandScore(
		[][]score.GeneralNote{{chord}},
		[][]score.GeneralNote{{}},
	)
	_, err := NewMeasureBuilder(ctx, 480).Build()
	assert.True(t, errors.Is(err, ErrChordFingeringCountMismatch))
}

func TestRestsProjectAsCategories(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{
			note(60, 0, 1),
			&score.Rest{Offset: 1, Quarters: 0.5},
			&score.Rest{Offset: 1.5, Quarters: 0.583},
		}},
		[][]score.GeneralNote{{}},
	)
	tracks, err := NewMeasureBuilder(ctx, 480).Build()

	assert := assert.New(t)
	assert.Nil(err)
	rests := tracks.Right[0].Rests
	assert.Equal(len(rests), 2)
	assert.Equal(rests[0].NoteLengthType, model.NoteLengthEighth)
	assert.Equal(rests[0].Time, 0.5)
	assert.Equal(rests[1].NoteLengthType, model.NoteLengthEighth)
}

func TestMissingTimeSignatureIsAnError(t *testing.T) {
	p := &score.Part{Measures: []*score.Measure{
		{Number: 1, Offset: 0, Duration: 4},
	}}
	s := &score.Score{Parts: []*score.Part{p, {Measures: []*score.Measure{
		{Number: 1, Offset: 0, Duration: 4},
	}}}}
	ctx := score.PartContext{Score: s, RightIndex: 0, LeftIndex: 1}

	_, err := NewMeasureBuilder(ctx, 480).Build()
	assert.True(t, errors.Is(err, ErrNoTimeSignature))
}

func TestTempoListBuilderDeduplicatesHands(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{}, {}},
		[][]score.GeneralNote{{}, {}},
	)
	ctx.Right().Measures[0].Tempos = []score.TempoMark{{Offset: 0, BPM: 104}}
	ctx.Left().Measures[0].Tempos = []score.TempoMark{{Offset: 0, BPM: 104}}
	ctx.Right().Measures[1].Tempos = []score.TempoMark{{Offset: 0, BPM: 90}}

	tempos := (&TempoListBuilder{Ctx: ctx, Resolution: 480}).Build()

	assert := assert.New(t)
	assert.Equal(len(tempos), 2)
	assert.Equal(tempos[0], model.Tempo{BPM: 104, Ticks: 0, Time: 0})
	// 4 quarters at 104 before the change
	assert.Equal(tempos[1].Ticks, 480*4)
	assert.InDelta(tempos[1].Time, 4*60.0/104.0, 1e-9)
}

func TestSongLengthUsesLongerHand(t *testing.T) {
	ctx := twoHandScore(
		[][]score.GeneralNote{{}},
		[][]score.GeneralNote{{}, {}},
	)
	length, err := (&SongLengthBuilder{Ctx: ctx}).Build()

	assert := assert.New(t)
	assert.Nil(err)
	// 8 quarters at the 120 default
	assert.Equal(length, 4.0)
}

func TestSupportingTracksFlattenChords(t *testing.T) {
	chord := score.NewChord(1, 1, []*score.Note{note(60, 0, 1), note(64, 0, 1)})
	ctx := twoHandScore(
		[][]score.GeneralNote{{note(72, 0, 1), chord, &score.Rest{Offset: 2, Quarters: 2}}},
		[][]score.GeneralNote{{}},
	)
	supporting, err := (&SupportingTracksBuilder{
		Ctx:             ctx,
		MyInstrument:    -5,
		TheirInstrument: 0,
	}).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(len(supporting), 2)
	right := supporting[0]
	assert.Equal(right.MyInstrument, -5)
	assert.Equal(len(right.Notes), 3)
	assert.Equal(right.Notes[0].Midi, 72)
	assert.Equal(right.Notes[1].Time, 0.5)
	assert.Equal(right.Notes[2].Time, 0.5)
	assert.Equal(len(supporting[1].Notes), 0)
}

func TestSongBuilderEndToEnd(t *testing.T) {
	right := &score.Part{Clefs: []score.Clef{score.ClefTreble}}
	sig := score.TimeSignature{Numerator: 3, Denominator: 4}
	for i := 0; i < 4; i++ {
		m := &score.Measure{
			Number:   i + 1,
			Offset:   float64(i) * 3,
			Duration: 3,
			Elements: []score.GeneralNote{note(72+i, 0, 1)},
		}
		if i == 0 {
			s := sig
			m.TimeSig = &s
			m.Tempos = []score.TempoMark{{Offset: 0, BPM: 104}}
		}
		right.Measures = append(right.Measures, m)
	}
	left := &score.Part{Clefs: []score.Clef{score.ClefBass}}
	for i := 0; i < 3; i++ {
		m := &score.Measure{
			Number:   i + 1,
			Offset:   float64(i) * 4,
			Duration: 4,
			Elements: []score.GeneralNote{note(48, 0, 4)},
		}
		if i == 0 {
			s := score.DefaultTimeSignature
			m.TimeSig = &s
		}
		left.Measures = append(left.Measures, m)
	}
	s := &score.Score{
		Parts: []*score.Part{right, left},
		Title: "Etude",
	}

	song, err := NewSongBuilder(s).Build()

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(song.Name, "Etude")
	assert.Equal(song.Resolution, 480)
	assert.Equal(song.AccompanyingChannels, []int{0, 0})
	assert.Equal(song.AccompanyingInstruments, []int{-2, -1})

	// both hands agree on 4 measures of 3/4
	assert.Equal(len(song.TracksV2.Right), 4)
	assert.Equal(len(song.TracksV2.Left), 4)
	assert.Equal(len(song.Measures), 4)
	for _, m := range song.TracksV2.Left {
		assert.Equal(m.TimeSignature, model.TimeSignature{3, 4})
	}

	// one tempo entry shared by both hands
	assert.Equal(len(song.Tempos), 1)
	assert.Equal(song.Tempos[0].BPM, 104.0)

	// 12 quarters at 104
	assert.InDelta(song.SongLength, 12*60.0/104.0, 1e-9)

	assert.Equal(len(song.SupportingTracks), 2)
	// both hands carry the explicit 3/4 after reconciliation
	assert.Equal(len(song.TimeSignatures), 2)
	for _, ts := range song.TimeSignatures {
		assert.Equal(ts.TimeSignature, model.TimeSignature{3, 4})
	}
}
