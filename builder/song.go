package builder

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jsphweid/pianovision/constants"
	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/reconcile"
	"github.com/jsphweid/pianovision/score"
)

// SongBuilder runs the whole pipeline: hand resolution, reconciliation, then
// the projections composed into the final song record.
type SongBuilder struct {
	Score      *score.Score
	RightIndex int // reconcile.AutoDetect to locate by clef
	LeftIndex  int

	MyInstrument    int
	TheirInstrument int
}

func NewSongBuilder(s *score.Score) *SongBuilder {
	return &SongBuilder{
		Score:           s,
		RightIndex:      reconcile.AutoDetect,
		LeftIndex:       reconcile.AutoDetect,
		MyInstrument:    -5,
		TheirInstrument: 0,
	}
}

func (b *SongBuilder) Build() (*model.Song, error) {
	ctx, err := reconcile.ResolveParts(b.Score, b.RightIndex, b.LeftIndex)
	if err != nil {
		return nil, err
	}
	if err := (&reconcile.TimeSignatureReconciler{Ctx: ctx}).Run(); err != nil {
		return nil, err
	}
	if err := (&reconcile.DurationReconciler{Ctx: ctx}).Run(); err != nil {
		return nil, err
	}
	stripEmptyTrailingMeasures(ctx)

	resolution := b.Score.Resolution
	if resolution == 0 {
		resolution = constants.DefaultResolution
	}

	// The score is read-only from here on, so the projections run as
	// independent tasks over the same snapshot and join by field assignment.
	var (
		tracks           *model.Tracks
		tempos           []model.Tempo
		keySignatures    []model.KeySignature
		timeSignatures   []model.SongTimeSignature
		songLength       float64
		supportingTracks []model.SupportingTrack
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		tracks, err = NewMeasureBuilder(ctx, resolution).Build()
		return err
	})
	g.Go(func() error {
		tempos = (&TempoListBuilder{Ctx: ctx, Resolution: resolution}).Build()
		return nil
	})
	g.Go(func() error {
		keySignatures = (&KeySignatureBuilder{Ctx: ctx, Resolution: resolution}).Build()
		return nil
	})
	g.Go(func() error {
		timeSignatures = (&TimeSignatureRecordsBuilder{Ctx: ctx, Resolution: resolution}).Build()
		return nil
	})
	g.Go(func() error {
		var err error
		songLength, err = (&SongLengthBuilder{Ctx: ctx}).Build()
		return err
	})
	g.Go(func() error {
		var err error
		supportingTracks, err = (&SupportingTracksBuilder{
			Ctx:             ctx,
			MyInstrument:    b.MyInstrument,
			TheirInstrument: b.TheirInstrument,
		}).Build()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artist := b.Score.Artist
	if artist == "" {
		artist = "AUTHOR MISSING"
	}

	measures := make([]model.SongMeasure, 0, len(tracks.Right))
	for _, m := range tracks.Right {
		measures = append(measures, m.ToSongMeasure())
	}

	slog.Info("song built",
		"rightMeasures", len(tracks.Right),
		"leftMeasures", len(tracks.Left),
		"length", songLength)
	return &model.Song{
		Name:                    b.Score.Title,
		Artist:                  artist,
		Resolution:              resolution,
		StartTime:               0,
		SongLength:              songLength,
		AccompanyingChannels:    []int{0, 0},
		AccompanyingInstruments: []int{-2, -1},
		AccompanyingTracks:      []any{},
		KeySignatures:           keySignatures,
		Tempos:                  tempos,
		TimeSignatures:          timeSignatures,
		Measures:                measures,
		TracksV2:                tracks,
		SupportingTracks:        supportingTracks,
		Sections:                []model.Section{},
		PositionGroups:          []model.PositionGroup{},
		TechnicalGroups:         []model.TechnicalGroup{},
	}, nil
}

func stripEmptyTrailingMeasures(ctx score.PartContext) {
	for _, p := range []*score.Part{ctx.Right(), ctx.Left()} {
		for len(p.Measures) > 0 {
			last := p.Measures[len(p.Measures)-1]
			if last.Duration > 0 {
				break
			}
			p.Measures = p.Measures[:len(p.Measures)-1]
		}
	}
}
