package score

type Measure struct {
	Number   int // 1-based
	Offset   float64
	Duration float64
	TimeSig  *TimeSignature // set only where the signature changes
	Tempos   []TempoMark
	Elements []GeneralNote
}

func (m *Measure) IsEmpty() bool {
	return len(m.Elements) == 0
}

// AllRests reports whether the measure contains no sounding content. An empty
// measure counts as all rests.
func (m *Measure) AllRests() bool {
	for _, el := range m.Elements {
		if _, ok := el.(*Rest); !ok {
			return false
		}
	}
	return true
}

// ContentEnd returns the offset (within the measure) where the last element
// ends, or 0 for an empty measure.
func (m *Measure) ContentEnd() float64 {
	var end float64
	for _, el := range m.Elements {
		if e := el.ElementOffset() + el.QuarterLength(); e > end {
			end = e
		}
	}
	return end
}

// HasTempo reports whether an equivalent tempo mark is already present.
func (m *Measure) HasTempo(t TempoMark) bool {
	for _, have := range m.Tempos {
		if nearlyEqual(have.Offset, t.Offset) && have.BPM == t.BPM {
			return true
		}
	}
	return false
}
