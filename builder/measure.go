// Package builder projects a reconciled score into the output records.
package builder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/score"
	"github.com/jsphweid/pianovision/tempo"
)

var (
	ErrNoTimeSignature             = errors.New("no time signature")
	ErrChordFingeringCountMismatch = errors.New("chord fingering count does not match note count")
)

// MeasureBuilder walks each hand's reconciled measures and emits one measure
// record per measure.
type MeasureBuilder struct {
	Ctx        score.PartContext
	Resolution int

	rightTempo *tempo.Index
	leftTempo  *tempo.Index

	noteCount        int
	measureNoteCount int
	minPitch         int
	maxPitch         int
}

func NewMeasureBuilder(ctx score.PartContext, resolution int) *MeasureBuilder {
	return &MeasureBuilder{
		Ctx:        ctx,
		Resolution: resolution,
		rightTempo: tempo.NewIndex(ctx.Right()),
		leftTempo:  tempo.NewIndex(ctx.Left()),
	}
}

func (b *MeasureBuilder) Build() (*model.Tracks, error) {
	slog.Info("building measures")
	right, err := b.buildHand(b.Ctx.Right(), model.HandRight, b.rightTempo)
	if err != nil {
		return nil, err
	}
	left, err := b.buildHand(b.Ctx.Left(), model.HandLeft, b.leftTempo)
	if err != nil {
		return nil, err
	}
	return &model.Tracks{Right: right, Left: left}, nil
}

func (b *MeasureBuilder) buildHand(p *score.Part, hand model.Hand, idx *tempo.Index) ([]*model.Measure, error) {
	b.noteCount = 0
	var activeSig *score.TimeSignature
	// The active tied note is fold state scoped to this one walk.
	var activeTie *score.Note
	measures := make([]*model.Measure, 0, len(p.Measures))
	for _, m := range p.Measures {
		rec, err := b.buildMeasure(m, hand, idx, &activeSig, &activeTie)
		if err != nil {
			return nil, err
		}
		measures = append(measures, rec)
	}
	return measures, nil
}

func (b *MeasureBuilder) buildMeasure(
	m *score.Measure,
	hand model.Hand,
	idx *tempo.Index,
	activeSig **score.TimeSignature,
	activeTie **score.Note,
) (*model.Measure, error) {
	b.measureNoteCount = 0
	b.minPitch = 200
	b.maxPitch = 0

	if m.TimeSig != nil {
		*activeSig = m.TimeSig
	}
	if *activeSig == nil {
		return nil, fmt.Errorf("%w: %s hand measure %d", ErrNoTimeSignature, hand, m.Number)
	}
	sig := **activeSig

	notes := make([]*model.Note, 0)
	rests := make([]model.Rest, 0)
	for _, el := range m.Elements {
		switch e := el.(type) {
		case *score.Note:
			finger := tieFinger(e, activeTie)
			note, err := b.buildNote(e, m, hand, idx, finger)
			if err != nil {
				return nil, err
			}
			notes = append(notes, note)
		case *score.Chord:
			chordNotes, err := b.buildChord(e, m, hand, idx)
			if err != nil {
				return nil, err
			}
			notes = append(notes, chordNotes...)
		case *score.Rest:
			rest, err := b.buildRest(e, m, idx)
			if err != nil {
				return nil, err
			}
			rests = append(rests, rest)
		default:
			return nil, fmt.Errorf("unsupported element %T in measure %d", el, m.Number)
		}
	}

	timeStart, err := idx.Seconds(m.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s hand measure %d: %w", hand, m.Number, err)
	}
	timeEnd, err := idx.Seconds(m.Offset + m.Duration)
	if err != nil {
		return nil, fmt.Errorf("%s hand measure %d: %w", hand, m.Number, err)
	}

	res := float64(b.Resolution)
	return &model.Measure{
		Direction:         "down",
		Time:              timeStart,
		TimeEnd:           timeEnd,
		TimeSignature:     model.TimeSignature{sig.Numerator, sig.Denominator},
		Min:               b.minPitch,
		Max:               b.maxPitch,
		MeasureTicksStart: m.Offset * res,
		MeasureTicksEnd:   (m.Offset + m.Duration) * res,
		Notes:             notes,
		Rests:             rests,
	}, nil
}

// tieFinger resolves a note's effective fingering. A fingering assigned at
// the start of a tied group carries onto its termination and overrides one
// set on the terminating note itself. The score is left untouched.
func tieFinger(n *score.Note, activeTie **score.Note) model.Finger {
	finger := model.Finger(n.Finger)
	switch n.Tie {
	case score.TieStart:
		*activeTie = n
	case score.TieStop:
		if *activeTie != nil {
			if (*activeTie).Finger != 0 {
				finger = model.Finger((*activeTie).Finger)
			}
			*activeTie = nil
		}
	}
	return finger
}

func (b *MeasureBuilder) buildChord(c *score.Chord, m *score.Measure, hand model.Hand, idx *tempo.Index) ([]*model.Note, error) {
	if len(c.Fingers) > 0 && len(c.Fingers) != len(c.Notes) {
		return nil, fmt.Errorf("%w: measure %d has a chord with %d notes and %d fingerings",
			ErrChordFingeringCountMismatch, m.Number, len(c.Notes), len(c.Fingers))
	}
	notes := make([]*model.Note, 0, len(c.Notes))
	for i, cn := range c.Notes {
		finger := model.FingerUnset
		if len(c.Fingers) > 0 {
			finger = model.Finger(c.Fingers[i])
		}
		resolved := *cn
		resolved.Offset = c.Offset
		resolved.Quarters = c.Quarters
		note, err := b.buildNote(&resolved, m, hand, idx, finger)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (b *MeasureBuilder) buildRest(r *score.Rest, m *score.Measure, idx *tempo.Index) (model.Rest, error) {
	start, err := idx.Seconds(m.Offset + r.Offset)
	if err != nil {
		return model.Rest{}, fmt.Errorf("rest in measure %d: %w", m.Number, err)
	}
	lengthType := model.NoteLengthFromQuarters(r.Quarters)
	if lengthType == model.NoteLengthComplex {
		lengthType, _ = model.NearestNoteLength(r.Quarters)
	}
	return model.Rest{Time: start, NoteLengthType: lengthType}, nil
}
