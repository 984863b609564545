package reconcile

import (
	"log/slog"
	"math"

	"github.com/jsphweid/pianovision/score"
)

const durationEpsilon = 1e-6

// DurationReconciler makes the two hands agree on measure count and on the
// duration of every corresponding measure pair.
type DurationReconciler struct {
	Ctx score.PartContext
}

func (r *DurationReconciler) Run() error {
	right := r.Ctx.Right()
	left := r.Ctx.Left()
	count := len(right.Measures)
	if len(left.Measures) > count {
		count = len(left.Measures)
	}

	for i := 0; i < count; i++ {
		rm := right.Measure(i)
		lm := left.Measure(i)
		generated := false
		switch {
		case rm == nil && lm == nil:
			continue
		case rm == nil:
			rm = synthesizeMeasure(i+1, lm.Duration)
			right.Measures = append(right.Measures, rm)
			generated = true
		case lm == nil:
			lm = synthesizeMeasure(i+1, rm.Duration)
			left.Measures = append(left.Measures, lm)
			generated = true
		}
		if !generated && durationsMatch(rm, lm) && !exactlyOneEmpty(rm, lm) {
			continue
		}
		slog.Info("fixing measure duration", "measure", rm.Number)
		fixMeasureDuration(rm, lm)
	}

	right.RecalcOffsets()
	left.RecalcOffsets()
	return nil
}

func synthesizeMeasure(number int, duration float64) *score.Measure {
	return &score.Measure{Number: number, Duration: duration}
}

func durationsMatch(a, b *score.Measure) bool {
	return math.Abs(a.Duration-b.Duration) < durationEpsilon
}

func exactlyOneEmpty(a, b *score.Measure) bool {
	return a.IsEmpty() != b.IsEmpty()
}

// fixMeasureDuration resizes the shorter (or empty) measure to the other's
// duration and pads it with a single rest so the totals match exactly.
func fixMeasureDuration(m1, m2 *score.Measure) {
	var target, source *score.Measure
	switch {
	case m1.Duration > m2.Duration+durationEpsilon:
		target, source = m2, m1
	case m2.Duration > m1.Duration+durationEpsilon:
		target, source = m1, m2
	case m1.IsEmpty() && !m2.IsEmpty():
		target, source = m1, m2
	case m2.IsEmpty() && !m1.IsEmpty():
		target, source = m2, m1
	default:
		return
	}

	restOffset := target.Duration
	restQuarters := source.Duration - target.Duration
	if target.IsEmpty() {
		restOffset = 0
		restQuarters = source.Duration
	}
	target.Duration = source.Duration
	if restQuarters > durationEpsilon {
		target.Elements = append(target.Elements, &score.Rest{
			Offset:   restOffset,
			Quarters: restQuarters,
		})
	}
}
