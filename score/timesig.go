package score

import "fmt"

type TimeSignature struct {
	Numerator   int
	Denominator int
}

// DefaultTimeSignature is the parser's 4/4 placeholder.
var DefaultTimeSignature = TimeSignature{Numerator: 4, Denominator: 4}

func (ts TimeSignature) IsDefault() bool {
	return ts == DefaultTimeSignature
}

// BarDuration returns the length of one bar in quarter lengths.
func (ts TimeSignature) BarDuration() float64 {
	return float64(ts.Numerator) * 4.0 / float64(ts.Denominator)
}

func (ts TimeSignature) Ratio() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// TimeSignatureChange is a signature anchored at an absolute part offset.
type TimeSignatureChange struct {
	Offset        float64
	MeasureNumber int
	Sig           TimeSignature
}

// TempoMark is a metronome mark anchored at an offset within its measure.
type TempoMark struct {
	Offset float64
	BPM    float64
}

// TempoChange is a tempo mark at an absolute part offset.
type TempoChange struct {
	Offset float64
	BPM    float64
}

// KeySignature as resolved by the parser: tonic name plus mode.
type KeySignature struct {
	Offset float64
	Key    string
	Scale  string // "major" or "minor"
}

type Clef int

const (
	ClefNone Clef = iota
	ClefTreble
	ClefBass
)
