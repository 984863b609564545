// Package fingering merges externally generated fingerings into a song's
// note records.
package fingering

import (
	"log/slog"

	"github.com/jsphweid/pianovision/model"
)

// Record is one fingering decision for a note, addressed by pitch name
// within a measure.
type Record struct {
	Name    string       `json:"name"`
	Hand    model.Hand   `json:"hand"`
	Finger  model.Finger `json:"finger"`
	Measure int          `json:"measure"`
	Offset  float64      `json:"offset"`
	ID      string       `json:"id,omitempty"`
}

// Generated holds the per-hand record lists as produced by a fingering
// source.
type Generated struct {
	Right []Record `json:"right"`
	Left  []Record `json:"left"`
}

// Apply writes each record's finger onto the first not-yet-matched note in
// the record's measure whose pitch name agrees. Records with an unset finger,
// an out-of-range measure, or no remaining match are dropped with a warning.
// Returns the number of notes updated.
func Apply(tracks *model.Tracks, gen *Generated) int {
	matched := make(map[*model.Note]bool)
	applied := 0
	for _, hand := range []model.Hand{model.HandRight, model.HandLeft} {
		records := gen.Right
		if hand == model.HandLeft {
			records = gen.Left
		}
		measures := tracks.Hand(hand)
		for _, r := range records {
			if !r.Finger.IsSet() {
				continue
			}
			if r.Measure < 0 || r.Measure >= len(measures) {
				slog.Warn("fingering record measure out of range",
					"hand", hand, "measure", r.Measure, "name", r.Name)
				continue
			}
			note := findUnmatched(measures[r.Measure].Notes, r.Name, matched)
			if note == nil {
				slog.Warn("fingering record matched no note",
					"hand", hand, "measure", r.Measure, "name", r.Name)
				continue
			}
			matched[note] = true
			note.Finger = r.Finger
			applied++
		}
	}
	return applied
}

func findUnmatched(notes []*model.Note, name string, matched map[*model.Note]bool) *model.Note {
	for _, n := range notes {
		if n.NoteName == name && !matched[n] {
			return n
		}
	}
	return nil
}

// Unfingered groups each hand's notes still lacking a fingering by measure
// index.
func Unfingered(tracks *model.Tracks) map[model.Hand]map[int][]*model.Note {
	result := map[model.Hand]map[int][]*model.Note{
		model.HandRight: {},
		model.HandLeft:  {},
	}
	for _, hand := range []model.Hand{model.HandRight, model.HandLeft} {
		for i, m := range tracks.Hand(hand) {
			for _, n := range m.Notes {
				if !n.Finger.IsSet() {
					result[hand][i] = append(result[hand][i], n)
				}
			}
		}
	}
	return result
}

// Count reports how many notes across both hands carry a fingering.
func Count(tracks *model.Tracks) int {
	count := 0
	for _, n := range tracks.AllNotes() {
		if n.Finger.IsSet() {
			count++
		}
	}
	return count
}
