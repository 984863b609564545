// Package midifile loads standard MIDI files into scores.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/pianovision/constants"
	"github.com/jsphweid/pianovision/score"
)

var ErrNoNotes = errors.New("midi file contains no notes")

func ReadFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

type rawNote struct {
	onset    float64 // quarter lengths
	quarters float64
	key      uint8
	velocity float64
}

// Decode turns a parsed MIDI file into a score. Each track with sounding
// notes becomes one part; tempo and meter events apply globally, whichever
// track carries them.
func Decode(s *smf.SMF, title string) (*score.Score, error) {
	resolution := constants.DefaultResolution
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && int(mt) > 0 {
		resolution = int(mt)
	}

	var tempos []score.TempoMark
	var sigChanges []score.TimeSignatureChange
	var keySigs []score.KeySignature
	var trackNotes [][]rawNote
	for _, events := range s.Tracks {
		var absTicks int64
		var notes []rawNote
		open := make(map[uint8]rawNote)
		for _, event := range events {
			absTicks += int64(event.Delta)
			offset := float64(absTicks) / float64(resolution)
			var channel, key, velocity uint8
			var bpm float64
			var num, denom uint8
			var metaKey smf.Key
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				open[key] = rawNote{onset: offset, key: key, velocity: float64(velocity) / 127.0}
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity): // velocity 0 ends the note
				if started, ok := open[key]; ok {
					started.quarters = offset - started.onset
					if started.quarters > 0 {
						notes = append(notes, started)
					}
					delete(open, key)
				}
			case event.Message.GetMetaTempo(&bpm):
				tempos = append(tempos, score.TempoMark{Offset: offset, BPM: bpm})
			case event.Message.GetMetaMeter(&num, &denom):
				sigChanges = append(sigChanges, score.TimeSignatureChange{
					Offset: offset,
					Sig:    score.TimeSignature{Numerator: int(num), Denominator: int(denom)},
				})
			case event.Message.GetMetaKey(&metaKey):
				keySigs = append(keySigs, toKeySignature(metaKey, offset))
			}
		}
		if len(notes) > 0 {
			trackNotes = append(trackNotes, notes)
		}
	}
	if len(trackNotes) == 0 {
		return nil, ErrNoNotes
	}

	result := &score.Score{Resolution: resolution, Title: title}
	for _, notes := range trackNotes {
		result.Parts = append(result.Parts, buildPart(notes, tempos, sigChanges))
	}
	// key signatures are global; carry them once to avoid duplicate records
	result.Parts[0].KeySigs = keySigs
	return result, nil
}

func toKeySignature(k smf.Key, offset float64) score.KeySignature {
	scale := "minor"
	if k.IsMajor {
		scale = "major"
	}
	return score.KeySignature{
		Offset: offset,
		Key:    score.PitchFromMidi(int(k.Key)).Name,
		Scale:  scale,
	}
}

// buildPart bars a track's flat note list under the global signature changes.
func buildPart(notes []rawNote, tempos []score.TempoMark, sigChanges []score.TimeSignatureChange) *score.Part {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].onset != notes[j].onset {
			return notes[i].onset < notes[j].onset
		}
		return notes[i].key < notes[j].key
	})

	var end float64
	var pitchSum int
	for _, n := range notes {
		pitchSum += int(n.key)
		if e := n.onset + n.quarters; e > end {
			end = e
		}
	}

	// Everything goes into one provisional measure; rebarring assigns the
	// real boundaries.
	all := &score.Measure{Number: 1, Offset: 0, Duration: end}
	for _, group := range groupChords(notes) {
		if len(group) == 1 {
			all.Elements = append(all.Elements, toNote(group[0]))
			continue
		}
		chordNotes := make([]*score.Note, len(group))
		for i, n := range group {
			chordNotes[i] = toNote(n)
		}
		all.Elements = append(all.Elements, score.NewChord(group[0].onset, group[0].quarters, chordNotes))
	}
	all.Tempos = tempos

	p := &score.Part{Measures: []*score.Measure{all}}
	p.RebuildMeasures(sigChanges)

	clef := score.ClefBass
	if pitchSum/len(notes) >= 60 {
		clef = score.ClefTreble
	}
	p.Clefs = []score.Clef{clef}
	return p
}

// groupChords batches notes sharing an onset and duration.
func groupChords(notes []rawNote) [][]rawNote {
	var groups [][]rawNote
	for _, n := range notes {
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			if sameOnset(last[0].onset, n.onset) && sameOnset(last[0].quarters, n.quarters) {
				groups[len(groups)-1] = append(last, n)
				continue
			}
		}
		groups = append(groups, []rawNote{n})
	}
	return groups
}

func sameOnset(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func toNote(n rawNote) *score.Note {
	return &score.Note{
		Pitch:    score.PitchFromMidi(int(n.key)),
		Offset:   n.onset,
		Quarters: n.quarters,
		Velocity: n.velocity,
	}
}
