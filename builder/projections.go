package builder

import (
	"sort"

	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/score"
	"github.com/jsphweid/pianovision/tempo"
)

// TempoListBuilder projects the global tempo list. Marks from both hands are
// deduplicated by (offset, bpm) since reconciliation mirrors them across.
type TempoListBuilder struct {
	Ctx        score.PartContext
	Resolution int
}

func (b *TempoListBuilder) Build() []model.Tempo {
	type mark struct {
		offset float64
		bpm    float64
	}
	var marks []mark
	for _, p := range []*score.Part{b.Ctx.Right(), b.Ctx.Left()} {
		for _, c := range p.TempoChanges() {
			dup := false
			for _, have := range marks {
				if nearly(have.offset, c.Offset) && have.bpm == c.BPM {
					dup = true
					break
				}
			}
			if !dup {
				marks = append(marks, mark{offset: c.Offset, bpm: c.BPM})
			}
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].offset < marks[j].offset })

	tempos := make([]model.Tempo, 0, len(marks))
	var sec, prevOffset, prevBPM float64
	for i, m := range marks {
		if i > 0 {
			sec += (m.offset - prevOffset) * 60.0 / prevBPM
		}
		tempos = append(tempos, model.Tempo{
			BPM:   m.bpm,
			Ticks: int(float64(b.Resolution) * m.offset),
			Time:  sec,
		})
		prevOffset, prevBPM = m.offset, m.bpm
	}
	return tempos
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

// KeySignatureBuilder projects every key signature in part order.
type KeySignatureBuilder struct {
	Ctx        score.PartContext
	Resolution int
}

func (b *KeySignatureBuilder) Build() []model.KeySignature {
	result := make([]model.KeySignature, 0)
	for _, p := range b.Ctx.Score.Parts {
		for _, ks := range p.KeySigs {
			result = append(result, model.KeySignature{
				Key:   ks.Key,
				Scale: ks.Scale,
				Ticks: int(float64(b.Resolution) * ks.Offset),
			})
		}
	}
	return result
}

// TimeSignatureRecordsBuilder projects the signature change list. The right
// hand always contributes; the left is skipped when its sequence is the 4/4
// placeholder and the right hand's is not.
type TimeSignatureRecordsBuilder struct {
	Ctx        score.PartContext
	Resolution int
}

func (b *TimeSignatureRecordsBuilder) Build() []model.SongTimeSignature {
	rightSigs := b.buildPart(b.Ctx.Right())
	leftSigs := b.buildPart(b.Ctx.Left())

	allDefaultRight := allDefaultRecords(rightSigs)
	allDefaultLeft := allDefaultRecords(leftSigs)

	results := rightSigs
	if allDefaultLeft && !allDefaultRight {
		return results
	}
	return append(results, leftSigs...)
}

func (b *TimeSignatureRecordsBuilder) buildPart(p *score.Part) []model.SongTimeSignature {
	sigs := make([]model.SongTimeSignature, 0)
	for _, c := range p.TimeSignatures() {
		sigs = append(sigs, model.SongTimeSignature{
			Ticks:         int(float64(b.Resolution) * c.Offset),
			Measures:      c.MeasureNumber - 1,
			TimeSignature: model.TimeSignature{c.Sig.Numerator, c.Sig.Denominator},
		})
	}
	return sigs
}

func allDefaultRecords(sigs []model.SongTimeSignature) bool {
	for _, s := range sigs {
		if s.TimeSignature != (model.TimeSignature{4, 4}) {
			return false
		}
	}
	return true
}

// SongLengthBuilder computes the total song length in seconds from the longer
// hand's end offset under its tempo index.
type SongLengthBuilder struct {
	Ctx score.PartContext
}

func (b *SongLengthBuilder) Build() (float64, error) {
	rightEnd, err := tempo.NewIndex(b.Ctx.Right()).Seconds(b.Ctx.Right().Duration())
	if err != nil {
		return 0, err
	}
	leftEnd, err := tempo.NewIndex(b.Ctx.Left()).Seconds(b.Ctx.Left().Duration())
	if err != nil {
		return 0, err
	}
	if leftEnd > rightEnd {
		return leftEnd, nil
	}
	return rightEnd, nil
}
