package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/pianovision/fingering"
	"github.com/jsphweid/pianovision/model"
)

var mergeOut string

func init() {
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "output path (default: <song>_with_fingerings.json)")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <song file> <fingerings file>",
	Short: "Merges generated fingerings into a song file",
	Long:  `Merges generated fingerings into a song file`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		gen, err := readFingerings(args[1])
		if err != nil {
			return err
		}
		applied := fingering.Apply(song.TracksV2, gen)
		slog.Info("merged fingerings", "applied", applied)

		out := mergeOut
		if out == "" {
			dir := filepath.Dir(args[0])
			out = filepath.Join(dir, fileStem(args[0])+"_with_fingerings.json")
		}
		return writeSong(song, out)
	},
}

func readSong(path string) (*model.Song, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading song file: %w", err)
	}
	var song model.Song
	if err := json.Unmarshal(dat, &song); err != nil {
		return nil, fmt.Errorf("parsing song file: %w", err)
	}
	if song.TracksV2 == nil {
		return nil, fmt.Errorf("song file has no tracks")
	}
	return &song, nil
}

func readFingerings(path string) (*fingering.Generated, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fingerings file: %w", err)
	}
	var gen fingering.Generated
	if err := json.Unmarshal(dat, &gen); err != nil {
		return nil, fmt.Errorf("parsing fingerings file: %w", err)
	}
	return &gen, nil
}
