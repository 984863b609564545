package score

import (
	"math"
	"sort"
)

const offsetEpsilon = 1e-6

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < offsetEpsilon
}

type Part struct {
	Clefs    []Clef
	Measures []*Measure
	KeySigs  []KeySignature
}

// Measure returns the measure at a 0-based index, or nil.
func (p *Part) Measure(i int) *Measure {
	if i < 0 || i >= len(p.Measures) {
		return nil
	}
	return p.Measures[i]
}

// MeasureByNumber returns the measure with the given 1-based number, or nil.
func (p *Part) MeasureByNumber(n int) *Measure {
	return p.Measure(n - 1)
}

func (p *Part) HasClef(c Clef) bool {
	for _, have := range p.Clefs {
		if have == c {
			return true
		}
	}
	return false
}

// Duration is the total part length in quarter lengths.
func (p *Part) Duration() float64 {
	if len(p.Measures) == 0 {
		return 0
	}
	last := p.Measures[len(p.Measures)-1]
	return last.Offset + last.Duration
}

// TimeSignatures returns the explicit signature changes in offset order.
func (p *Part) TimeSignatures() []TimeSignatureChange {
	var changes []TimeSignatureChange
	for _, m := range p.Measures {
		if m.TimeSig != nil {
			changes = append(changes, TimeSignatureChange{
				Offset:        m.Offset,
				MeasureNumber: m.Number,
				Sig:           *m.TimeSig,
			})
		}
	}
	return changes
}

// TempoChanges returns every tempo mark at its absolute offset, in order.
func (p *Part) TempoChanges() []TempoChange {
	var changes []TempoChange
	for _, m := range p.Measures {
		for _, t := range m.Tempos {
			changes = append(changes, TempoChange{Offset: m.Offset + t.Offset, BPM: t.BPM})
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Offset < changes[j].Offset
	})
	return changes
}

// RecalcOffsets renumbers measures 1..n and restores cumulative offsets after
// structural edits.
func (p *Part) RecalcOffsets() {
	offset := 0.0
	for i, m := range p.Measures {
		m.Number = i + 1
		m.Offset = offset
		offset += m.Duration
	}
}

type absElement struct {
	offset float64
	el     GeneralNote
}

type absTempo struct {
	offset float64
	bpm    float64
}

// RebuildMeasures re-bars the part's content under the given signature
// changes. Elements keep their absolute onsets and land in the measure that
// contains them; tempo marks travel the same way. With no changes the 4/4
// placeholder is used and stamped on the first measure.
func (p *Part) RebuildMeasures(changes []TimeSignatureChange) {
	var els []absElement
	var tempos []absTempo
	end := p.Duration()
	for _, m := range p.Measures {
		for _, el := range m.Elements {
			abs := m.Offset + el.ElementOffset()
			els = append(els, absElement{offset: abs, el: el})
			if e := abs + el.QuarterLength(); e > end {
				end = e
			}
		}
		for _, t := range m.Tempos {
			tempos = append(tempos, absTempo{offset: m.Offset + t.Offset, bpm: t.BPM})
		}
	}
	sort.SliceStable(els, func(i, j int) bool { return els[i].offset < els[j].offset })

	sorted := make([]TimeSignatureChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var measures []*Measure
	active := DefaultTimeSignature
	explicit := len(sorted) > 0
	offset := 0.0
	ci := 0
	for num := 1; offset < end-offsetEpsilon || num == 1; num++ {
		changed := false
		for ci < len(sorted) && sorted[ci].Offset <= offset+offsetEpsilon {
			active = sorted[ci].Sig
			changed = true
			ci++
		}
		m := &Measure{Number: num, Offset: offset, Duration: active.BarDuration()}
		if changed || (num == 1 && !explicit) {
			sig := active
			m.TimeSig = &sig
		}
		measures = append(measures, m)
		offset += m.Duration
	}

	for _, ae := range els {
		m := measureContaining(measures, ae.offset)
		cloned := cloneAt(ae.el, ae.offset-m.Offset)
		m.Elements = append(m.Elements, cloned)
	}
	for _, at := range tempos {
		m := measureContaining(measures, at.offset)
		m.Tempos = append(m.Tempos, TempoMark{Offset: at.offset - m.Offset, BPM: at.bpm})
	}
	p.Measures = measures
}

func measureContaining(measures []*Measure, offset float64) *Measure {
	for _, m := range measures {
		if offset >= m.Offset-offsetEpsilon && offset < m.Offset+m.Duration-offsetEpsilon {
			return m
		}
	}
	return measures[len(measures)-1]
}

func cloneAt(el GeneralNote, offset float64) GeneralNote {
	switch e := el.(type) {
	case *Note:
		n := *e
		n.Offset = offset
		return &n
	case *Chord:
		c := *e
		c.Offset = offset
		c.Notes = make([]*Note, len(e.Notes))
		for i, cn := range e.Notes {
			dup := *cn
			dup.Offset = offset
			c.Notes[i] = &dup
		}
		return &c
	case *Rest:
		r := *e
		r.Offset = offset
		return &r
	}
	return el
}
