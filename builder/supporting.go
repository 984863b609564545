package builder

import (
	"fmt"

	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/score"
	"github.com/jsphweid/pianovision/tempo"
)

// SupportingTracksBuilder flattens each hand's notes, ignoring measure
// grouping, into an absolute-time MIDI event list for the accompaniment
// track. Instrument identifiers are passed through unchanged.
type SupportingTracksBuilder struct {
	Ctx             score.PartContext
	MyInstrument    int
	TheirInstrument int
}

func (b *SupportingTracksBuilder) Build() ([]model.SupportingTrack, error) {
	right, err := b.buildHand(b.Ctx.Right())
	if err != nil {
		return nil, err
	}
	left, err := b.buildHand(b.Ctx.Left())
	if err != nil {
		return nil, err
	}
	return []model.SupportingTrack{right, left}, nil
}

func (b *SupportingTracksBuilder) buildHand(p *score.Part) (model.SupportingTrack, error) {
	idx := tempo.NewIndex(p)
	notes := make([]model.SupportingTrackMidi, 0)
	for _, m := range p.Measures {
		for _, el := range m.Elements {
			switch e := el.(type) {
			case *score.Note:
				ev, err := b.buildEvent(e, m.Offset+e.Offset, idx)
				if err != nil {
					return model.SupportingTrack{}, err
				}
				notes = append(notes, ev)
			case *score.Chord:
				// chord notes convert independently at the chord's offset
				for _, cn := range e.Notes {
					ev, err := b.buildEvent(cn, m.Offset+e.Offset, idx)
					if err != nil {
						return model.SupportingTrack{}, err
					}
					notes = append(notes, ev)
				}
			case *score.Rest:
			default:
				return model.SupportingTrack{}, fmt.Errorf("unsupported element %T in measure %d", el, m.Number)
			}
		}
	}
	return model.SupportingTrack{
		Notes:           notes,
		MyInstrument:    b.MyInstrument,
		TheirInstrument: b.TheirInstrument,
	}, nil
}

func (b *SupportingTracksBuilder) buildEvent(n *score.Note, absOffset float64, idx *tempo.Index) (model.SupportingTrackMidi, error) {
	start, err := idx.Seconds(absOffset)
	if err != nil {
		return model.SupportingTrackMidi{}, err
	}
	duration, err := idx.DurationSeconds(absOffset, n.Quarters)
	if err != nil {
		return model.SupportingTrackMidi{}, err
	}
	return model.SupportingTrackMidi{
		Midi:     n.Pitch.Midi,
		Time:     start,
		Duration: duration,
		Velocity: n.Velocity,
	}, nil
}
