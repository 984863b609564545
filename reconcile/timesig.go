package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/jsphweid/pianovision/score"
)

// TimeSignatureReconciler detects the hand whose signature sequence is the
// parser's 4/4 placeholder and re-bars it under the other hand's signatures.
type TimeSignatureReconciler struct {
	Ctx score.PartContext
}

func (r *TimeSignatureReconciler) Run() error {
	right := r.Ctx.Right()
	left := r.Ctx.Left()
	rightSigs := right.TimeSignatures()
	leftSigs := left.TimeSignatures()
	rightDefault := allDefault(rightSigs)
	leftDefault := allDefault(leftSigs)

	var target, source *score.Part
	switch {
	case leftDefault && !rightDefault:
		target, source = left, right
	case rightDefault && !leftDefault:
		target, source = right, left
	case !leftDefault && !rightDefault:
		if !sameSignatures(rightSigs, leftSigs) {
			return fmt.Errorf("%w: right %v vs left %v",
				ErrUnreconcilableTimeSignatures, ratios(rightSigs), ratios(leftSigs))
		}
		return nil
	default:
		return nil
	}

	slog.Info("reconciling time signatures", "signatures", ratios(source.TimeSignatures()))
	sourceCount := len(source.Measures)
	originalCount := len(target.Measures)
	target.RebuildMeasures(source.TimeSignatures())
	if err := alignTempos(target, source); err != nil {
		return err
	}
	if len(target.Measures) == sourceCount+1 {
		r.tryRemoveFinalMeasure(target)
	}
	slog.Info("time signatures reconciled",
		"sourceMeasures", sourceCount,
		"originalTargetMeasures", originalCount,
		"targetMeasures", len(target.Measures))
	return nil
}

func allDefault(sigs []score.TimeSignatureChange) bool {
	for _, c := range sigs {
		if !c.Sig.IsDefault() {
			return false
		}
	}
	return true
}

func sameSignatures(a, b []score.TimeSignatureChange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Offset != b[i].Offset || a[i].Sig != b[i].Sig {
			return false
		}
	}
	return true
}

func ratios(sigs []score.TimeSignatureChange) []string {
	res := make([]string, len(sigs))
	for i, c := range sigs {
		res[i] = c.Sig.Ratio()
	}
	return res
}

// alignTempos copies tempo marks from source measures onto the corresponding
// target measures (by measure number) when not already present.
func alignTempos(target, source *score.Part) error {
	for _, m := range source.Measures {
		tm := target.MeasureByNumber(m.Number)
		if tm == nil {
			return fmt.Errorf("%w: measure %d missing from target part", ErrNoMeasureAtIndex, m.Number)
		}
		for _, mark := range m.Tempos {
			if !tm.HasTempo(mark) {
				tm.Tempos = append(tm.Tempos, mark)
			}
		}
	}
	return nil
}

// tryRemoveFinalMeasure drops a trailing rebuild artifact, but only if it
// holds nothing but rests.
func (r *TimeSignatureReconciler) tryRemoveFinalMeasure(p *score.Part) {
	last := p.Measures[len(p.Measures)-1]
	if !last.AllRests() {
		slog.Warn("extra trailing measure has real content, leaving it",
			"measure", last.Number)
		return
	}
	p.Measures = p.Measures[:len(p.Measures)-1]
	p.RecalcOffsets()
}
