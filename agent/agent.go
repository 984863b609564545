// Package agent fills in missing fingerings by asking a language model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jsphweid/pianovision/constants"
	"github.com/jsphweid/pianovision/fingering"
	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/util"
)

const (
	defaultMeasuresPerPrompt = 10
	maxParseRetries          = 3
)

type Options struct {
	BaseURL           string
	APIKey            string
	Model             string
	MeasuresPerPrompt int
	HandSpan          float64
}

// Agent sends batches of unfingered notes to a chat model and writes the
// returned fingerings back onto the notes by id.
type Agent struct {
	client            openai.Client
	model             string
	measuresPerPrompt int
	handSpan          float64
}

func New(opts Options) *Agent {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = constants.GetAgentBaseURL()
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = constants.GetAgentAPIKey()
	}
	measures := opts.MeasuresPerPrompt
	if measures <= 0 {
		measures = defaultMeasuresPerPrompt
	}
	span := opts.HandSpan
	if span == 0 {
		span = 8.5
	}
	return &Agent{
		client:            openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
		model:             opts.Model,
		measuresPerPrompt: measures,
		handSpan:          span,
	}
}

// promptNote is the note shape sent to and received from the model. Fingering
// is only meaningful on the way back.
type promptNote struct {
	ID        string  `json:"id"`
	Note      int     `json:"note"`
	Start     float64 `json:"start"`
	Fingering int     `json:"fingering,omitempty"`
}

type promptResponse struct {
	Right []promptNote `json:"right"`
	Left  []promptNote `json:"left"`
}

// Run fingers every unfingered note across both hands. Measures are batched
// so prompts stay small; each batch sees the previous batch's result for
// continuity across the boundary.
func (a *Agent) Run(ctx context.Context, tracks *model.Tracks) error {
	unfingered := fingering.Unfingered(tracks)
	for _, hand := range []model.Hand{model.HandRight, model.HandLeft} {
		if err := a.runHand(ctx, tracks, hand, unfingered[hand]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) runHand(ctx context.Context, tracks *model.Tracks, hand model.Hand, byMeasure map[int][]*model.Note) error {
	if len(byMeasure) == 0 {
		return nil
	}
	measureCount := tracks.MeasureCount(hand)
	var prev []promptNote
	for lo := 0; lo < measureCount; lo += a.measuresPerPrompt {
		hi := util.Min(lo+a.measuresPerPrompt, measureCount)
		var batch []promptNote
		for i := lo; i < hi; i++ {
			for _, n := range byMeasure[i] {
				batch = append(batch, promptNote{ID: n.ID, Note: n.Midi, Start: n.Start})
			}
		}
		if len(batch) == 0 {
			continue
		}
		slog.Info("requesting fingerings", "hand", hand, "measures", fmt.Sprintf("%d-%d", lo, hi-1), "notes", len(batch))
		result, err := a.requestBatch(ctx, hand, batch, prev)
		if err != nil {
			return err
		}
		applyByID(tracks, hand, result)
		prev = result
	}
	return nil
}

func (a *Agent) requestBatch(ctx context.Context, hand model.Hand, batch, prev []promptNote) ([]promptNote, error) {
	userMsg, err := buildUserMessage(hand, batch, prev)
	if err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt < maxParseRetries; attempt++ {
		resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(a.systemPrompt()),
				openai.UserMessage(userMsg),
			},
			Model: a.model,
		})
		if err != nil {
			return nil, fmt.Errorf("fingering request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("fingering response had no choices")
			continue
		}
		parsed, err := parseResponse(resp.Choices[0].Message.Content, hand)
		if err != nil {
			slog.Warn("unparseable fingering response, retrying", "attempt", attempt+1, "err", err)
			lastErr = err
			continue
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("fingering response unparseable after %d attempts: %w", maxParseRetries, lastErr)
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf(`You are a piano fingering engine. You receive JSON lists of notes for the right and left hand. Each note has an id, a midi pitch ("note") and a start time in seconds ("start").

Assign a fingering to every note you receive: 1 = thumb, 2 = index, 3 = middle, 4 = ring, 5 = pinky. The player's hand spans about %.1f white keys, so avoid stretches wider than that and prefer smooth transitions between consecutive notes.

Reply with JSON only, no prose, shaped as {"right": [...], "left": [...]} where each entry is the input note with a "fingering" field added. Keep every id exactly as given.`, a.handSpan)
}

func buildUserMessage(hand model.Hand, batch, prev []promptNote) (string, error) {
	payload := map[string]any{string(hand): batch}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	msg := string(body)
	if len(prev) > 0 {
		prevBody, err := json.Marshal(prev)
		if err != nil {
			return "", err
		}
		msg = "Already fingered, for continuity: " + string(prevBody) + "\n\nFinger these: " + msg
	}
	return msg, nil
}

func parseResponse(content string, hand model.Hand) ([]promptNote, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var resp promptResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, err
	}
	notes := resp.Right
	if hand == model.HandLeft {
		notes = resp.Left
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no %s hand notes in response", hand)
	}
	return notes, nil
}

func applyByID(tracks *model.Tracks, hand model.Hand, notes []promptNote) {
	for _, pn := range notes {
		if pn.Fingering < int(model.FingerThumb) || pn.Fingering > int(model.FingerPinky) {
			slog.Warn("ignoring out-of-range fingering", "id", pn.ID, "fingering", pn.Fingering)
			continue
		}
		note := tracks.NoteByID(hand, pn.ID)
		if note == nil {
			slog.Warn("fingering for unknown note id", "hand", hand, "id", pn.ID)
			continue
		}
		note.Finger = model.Finger(pn.Fingering)
	}
}
