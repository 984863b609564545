package fingering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/pianovision/model"
)

func makeTracks() *model.Tracks {
	return &model.Tracks{
		Right: []*model.Measure{
			{Notes: []*model.Note{
				{ID: "r0", NoteName: "C4"},
				{ID: "r1", NoteName: "C4"},
				{ID: "r2", NoteName: "E4"},
			}},
			{Notes: []*model.Note{
				{ID: "r3", NoteName: "G4"},
			}},
		},
		Left: []*model.Measure{
			{Notes: []*model.Note{
				{ID: "l0", NoteName: "C2"},
			}},
			{},
		},
	}
}

func TestApplyMatchesByNameWithinMeasure(t *testing.T) {
	tracks := makeTracks()
	applied := Apply(tracks, &Generated{
		Right: []Record{
			{Name: "E4", Measure: 0, Finger: model.FingerMiddle},
			{Name: "G4", Measure: 1, Finger: model.FingerPinky},
		},
		Left: []Record{
			{Name: "C2", Measure: 0, Finger: model.FingerThumb},
		},
	})

	assert := assert.New(t)
	assert.Equal(applied, 3)
	assert.Equal(tracks.NoteByID(model.HandRight, "r2").Finger, model.FingerMiddle)
	assert.Equal(tracks.NoteByID(model.HandRight, "r3").Finger, model.FingerPinky)
	assert.Equal(tracks.NoteByID(model.HandLeft, "l0").Finger, model.FingerThumb)
	assert.Equal(tracks.NoteByID(model.HandRight, "r0").Finger, model.FingerUnset)
}

func TestApplyDuplicatePitchNamesMatchInOrder(t *testing.T) {
	tracks := makeTracks()
	applied := Apply(tracks, &Generated{
		Right: []Record{
			{Name: "C4", Measure: 0, Finger: model.FingerThumb},
			{Name: "C4", Measure: 0, Finger: model.FingerIndex},
		},
	})

	assert := assert.New(t)
	assert.Equal(applied, 2)
	// each record consumes one note, never the same one twice
	assert.Equal(tracks.NoteByID(model.HandRight, "r0").Finger, model.FingerThumb)
	assert.Equal(tracks.NoteByID(model.HandRight, "r1").Finger, model.FingerIndex)
}

func TestApplyDropsBadRecords(t *testing.T) {
	tracks := makeTracks()
	applied := Apply(tracks, &Generated{
		Right: []Record{
			{Name: "C4", Measure: 0, Finger: model.FingerUnset}, // no finger
			{Name: "B7", Measure: 0, Finger: model.FingerThumb}, // no such note
			{Name: "C4", Measure: 9, Finger: model.FingerThumb}, // out of range
		},
	})

	assert := assert.New(t)
	assert.Equal(applied, 0)
	assert.Equal(tracks.NoteByID(model.HandRight, "r0").Finger, model.FingerUnset)
}

func TestUnfingered(t *testing.T) {
	tracks := makeTracks()
	tracks.Right[0].Notes[0].Finger = model.FingerThumb

	unfingered := Unfingered(tracks)

	assert := assert.New(t)
	assert.Equal(len(unfingered[model.HandRight][0]), 2)
	assert.Equal(len(unfingered[model.HandRight][1]), 1)
	assert.Equal(len(unfingered[model.HandLeft]), 1)
	assert.Equal(unfingered[model.HandLeft][0][0].ID, "l0")
}

func TestCount(t *testing.T) {
	tracks := makeTracks()
	assert := assert.New(t)
	assert.Equal(Count(tracks), 0)

	tracks.Right[0].Notes[0].Finger = model.FingerThumb
	tracks.Left[0].Notes[0].Finger = model.FingerPinky
	assert.Equal(Count(tracks), 2)
}
