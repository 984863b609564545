package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/pianovision/agent"
	"github.com/jsphweid/pianovision/builder"
	"github.com/jsphweid/pianovision/config"
	"github.com/jsphweid/pianovision/constants"
	"github.com/jsphweid/pianovision/db"
	"github.com/jsphweid/pianovision/midifile"
	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/reconcile"
)

var (
	buildRight  int
	buildLeft   int
	buildOut    string
	buildConfig string
	buildFinger bool
)

func init() {
	buildCmd.Flags().IntVar(&buildRight, "right", reconcile.AutoDetect, "right hand part index (default: detect by clef)")
	buildCmd.Flags().IntVar(&buildLeft, "left", reconcile.AutoDetect, "left hand part index (default: detect by clef)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output path (default: <input>_piano_vision.json)")
	buildCmd.Flags().StringVar(&buildConfig, "config", "", "YAML config path")
	buildCmd.Flags().BoolVar(&buildFinger, "finger", false, "generate fingerings via the agent")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build <midi file>",
	Short: "Builds a song file from a MIDI file",
	Long:  `Builds a song file from a MIDI file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		song, err := BuildSong(args[0], cfg)
		if err != nil {
			return err
		}
		if buildFinger {
			a := agent.New(agent.Options{
				BaseURL:           cfg.Agent.BaseURL,
				APIKey:            cfg.Agent.APIKey,
				Model:             cfg.Agent.Model,
				MeasuresPerPrompt: cfg.Agent.MeasuresPerPrompt,
				HandSpan:          cfg.HandSize.Span(),
			})
			if err := a.Run(context.Background(), song.TracksV2); err != nil {
				return err
			}
		}
		out := buildOut
		if out == "" {
			out = outputPath(args[0])
		}
		return writeSong(song, out)
	},
}

func loadConfig() (*config.Config, error) {
	if buildConfig == "" {
		return config.Default(), nil
	}
	return config.Load(buildConfig)
}

// BuildSong loads a MIDI file and runs the full build. The serve command
// shares this path.
func BuildSong(path string, cfg *config.Config) (*model.Song, error) {
	mf, err := midifile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := midifile.Decode(mf, fileStem(path))
	if err != nil {
		return nil, err
	}

	sb := builder.NewSongBuilder(s)
	if buildRight != reconcile.AutoDetect {
		sb.RightIndex = buildRight
	} else if cfg.RightHandPartIndex != nil {
		sb.RightIndex = *cfg.RightHandPartIndex
	}
	if buildLeft != reconcile.AutoDetect {
		sb.LeftIndex = buildLeft
	} else if cfg.LeftHandPartIndex != nil {
		sb.LeftIndex = *cfg.LeftHandPartIndex
	}
	song, err := sb.Build()
	if err != nil {
		return nil, err
	}
	applyMetadata(song, path)
	return song, nil
}

// applyMetadata fills in title and artist from the metadata table when one is
// configured. Lookups are best effort.
func applyMetadata(song *model.Song, path string) {
	if constants.GetMetadataDBEndpoint() == "" {
		return
	}
	filename := filepath.Base(path)
	metas, err := db.GetSongMetadatas([]string{filename})
	if err != nil {
		slog.Warn("metadata lookup failed", "file", filename, "err", err)
		return
	}
	if meta, ok := metas[filename]; ok {
		song.Name = meta.Title
		song.Artist = meta.Artist
	}
}

func writeSong(song *model.Song, path string) error {
	dat, err := json.MarshalIndent(song, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, dat, 0644); err != nil {
		return fmt.Errorf("writing song file: %w", err)
	}
	slog.Info("wrote song", "path", path)
	return nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func outputPath(input string) string {
	dir := filepath.Dir(input)
	return filepath.Join(dir, fileStem(input)+"_piano_vision.json")
}
