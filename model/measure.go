package model

// TimeSignature serializes as a [numerator, denominator] pair.
type TimeSignature [2]int

type Rest struct {
	Time           float64    `json:"time"`
	NoteLengthType NoteLength `json:"noteLengthType"`
}

type Note struct {
	ID             string     `json:"id"`
	Midi           int        `json:"note"`
	NoteName       string     `json:"noteName"`
	NotePitch      string     `json:"notePitch"`
	Octave         int        `json:"octave"`
	Start          float64    `json:"start"`
	End            float64    `json:"end"`
	Duration       float64    `json:"duration"`
	DurationTicks  int        `json:"durationTicks"`
	TicksStart     int        `json:"ticksStart"`
	Velocity       float64    `json:"velocity"`
	NoteOffVelocity int       `json:"noteOffVelocity"`
	MeasureBars    float64    `json:"measureBars"`
	NoteLengthType NoteLength `json:"noteLengthType"`
	Group          int        `json:"group"`
	MeasureInd     int        `json:"measureInd"`
	NoteMeasureInd int        `json:"noteMeasureInd"`
	Finger         Finger     `json:"finger"`
	SMP            string     `json:"smp,omitempty"`
}

type Measure struct {
	Direction         string        `json:"direction"`
	Time              float64       `json:"time"`
	TimeEnd           float64       `json:"timeEnd"`
	TimeSignature     TimeSignature `json:"timeSignature"`
	Min               int           `json:"min"`
	Max               int           `json:"max"`
	MeasureTicksStart float64       `json:"measureTicksStart"`
	MeasureTicksEnd   float64       `json:"measureTicksEnd"`
	Notes             []*Note       `json:"notes"`
	Rests             []Rest        `json:"rests"`
}

func (m *Measure) NoteCount() int {
	return len(m.Notes)
}

// ToSongMeasure flattens the measure into the song-level summary record.
func (m *Measure) ToSongMeasure() SongMeasure {
	return SongMeasure{
		Time:            m.Time,
		TimeSignature:   m.TimeSignature,
		TicksPerMeasure: int(m.MeasureTicksEnd - m.MeasureTicksStart),
		TicksStart:      m.MeasureTicksStart,
		TotalTicks:      m.MeasureTicksEnd - m.MeasureTicksStart,
		Type:            2,
	}
}

// Tracks holds the per-hand measure records.
type Tracks struct {
	Right []*Measure `json:"right"`
	Left  []*Measure `json:"left"`
}

func (t *Tracks) Hand(h Hand) []*Measure {
	if h == HandLeft {
		return t.Left
	}
	return t.Right
}

func (t *Tracks) Notes(h Hand) []*Note {
	var notes []*Note
	for _, m := range t.Hand(h) {
		notes = append(notes, m.Notes...)
	}
	return notes
}

func (t *Tracks) AllNotes() []*Note {
	return append(t.Notes(HandLeft), t.Notes(HandRight)...)
}

func (t *Tracks) NoteByID(h Hand, id string) *Note {
	for _, m := range t.Hand(h) {
		for _, n := range m.Notes {
			if n.ID == id {
				return n
			}
		}
	}
	return nil
}

func (t *Tracks) MeasureCount(h Hand) int {
	return len(t.Hand(h))
}

func (t *Tracks) NoteCount(h Hand) int {
	var count int
	for _, m := range t.Hand(h) {
		count += m.NoteCount()
	}
	return count
}
