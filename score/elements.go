package score

import (
	"fmt"
	"sort"
)

// GeneralNote is the closed union of measure content: *Note, *Chord or *Rest.
// Consumers switch exhaustively; anything else is a hard error.
type GeneralNote interface {
	ElementOffset() float64 // offset within the measure, in quarter lengths
	QuarterLength() float64
	generalNote()
}

type Tie int

const (
	TieNone Tie = iota
	TieStart
	TieStop
)

type Pitch struct {
	Midi   int
	Name   string // pitch class, e.g. "C#"
	Octave int
}

func (p Pitch) NameWithOctave() string {
	return fmt.Sprintf("%s%d", p.Name, p.Octave)
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchFromMidi spells a MIDI number with sharps, middle C (60) being C4.
func PitchFromMidi(midi int) Pitch {
	class := midi % 12
	if class < 0 {
		class += 12
	}
	return Pitch{
		Midi:   midi,
		Name:   pitchClasses[class],
		Octave: midi/12 - 1,
	}
}

type Note struct {
	Pitch    Pitch
	Offset   float64
	Quarters float64
	Velocity float64 // scalar in [0, 1], 0 when the source carries none
	Tie      Tie
	Finger   int // 1..5, 0 when unset
}

func (n *Note) ElementOffset() float64 { return n.Offset }
func (n *Note) QuarterLength() float64 { return n.Quarters }
func (n *Note) generalNote()           {}

// Chord notes share one offset and are kept sorted ascending by MIDI number.
// Fingers is the chord-level annotation list, distributed 1:1 in pitch order.
type Chord struct {
	Offset   float64
	Quarters float64
	Notes    []*Note
	Fingers  []int
}

// NewChord takes ownership of the notes, aligning them to the chord's onset
// and duration and ordering them by pitch.
func NewChord(offset, quarters float64, notes []*Note) *Chord {
	for _, n := range notes {
		n.Offset = offset
		n.Quarters = quarters
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Pitch.Midi < notes[j].Pitch.Midi
	})
	return &Chord{Offset: offset, Quarters: quarters, Notes: notes}
}

func (c *Chord) ElementOffset() float64 { return c.Offset }
func (c *Chord) QuarterLength() float64 { return c.Quarters }
func (c *Chord) generalNote()           {}

type Rest struct {
	Offset   float64
	Quarters float64
}

func (r *Rest) ElementOffset() float64 { return r.Offset }
func (r *Rest) QuarterLength() float64 { return r.Quarters }
func (r *Rest) generalNote()           {}
