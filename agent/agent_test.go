package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/pianovision/model"
)

func TestBuildUserMessageIncludesPreviousBatch(t *testing.T) {
	batch := []promptNote{{ID: "r2", Note: 64, Start: 1.5}}
	prev := []promptNote{{ID: "r1", Note: 60, Start: 0, Fingering: 1}}

	assert := assert.New(t)

	msg, err := buildUserMessage(model.HandRight, batch, nil)
	assert.Nil(err)
	assert.True(strings.Contains(msg, `"right"`))
	assert.False(strings.Contains(msg, "continuity"))

	msg, err = buildUserMessage(model.HandRight, batch, prev)
	assert.Nil(err)
	assert.True(strings.Contains(msg, "continuity"))
	assert.True(strings.Contains(msg, `"r1"`))
	assert.True(strings.Contains(msg, `"r2"`))
}

func TestParseResponse(t *testing.T) {
	content := `{"right": [{"id": "r0", "note": 60, "start": 0, "fingering": 1}], "left": []}`
	notes, err := parseResponse(content, model.HandRight)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(len(notes), 1)
	assert.Equal(notes[0].ID, "r0")
	assert.Equal(notes[0].Fingering, 1)
}

func TestParseResponseStripsCodeFence(t *testing.T) {
	content := "```json\n{\"left\": [{\"id\": \"l0\", \"fingering\": 5}]}\n```"
	notes, err := parseResponse(content, model.HandLeft)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(notes[0].Fingering, 5)
}

func TestParseResponseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := parseResponse("not json", model.HandRight)
	assert.NotNil(err)

	// valid JSON but nothing for the requested hand
	_, err = parseResponse(`{"left": [{"id": "l0"}]}`, model.HandRight)
	assert.NotNil(err)
}

func TestApplyByID(t *testing.T) {
	tracks := &model.Tracks{
		Right: []*model.Measure{
			{Notes: []*model.Note{{ID: "r0"}, {ID: "r1"}}},
		},
	}
	applyByID(tracks, model.HandRight, []promptNote{
		{ID: "r0", Fingering: 2},
		{ID: "r1", Fingering: 9},      // out of range, skipped
		{ID: "missing", Fingering: 1}, // unknown id, skipped
	})

	assert := assert.New(t)
	assert.Equal(tracks.NoteByID(model.HandRight, "r0").Finger, model.FingerIndex)
	assert.Equal(tracks.NoteByID(model.HandRight, "r1").Finger, model.FingerUnset)
}

func TestNewDefaults(t *testing.T) {
	a := New(Options{Model: "qwen2.5"})

	assert := assert.New(t)
	assert.Equal(a.measuresPerPrompt, defaultMeasuresPerPrompt)
	assert.Equal(a.handSpan, 8.5)
	assert.True(strings.Contains(a.systemPrompt(), "8.5"))
}
