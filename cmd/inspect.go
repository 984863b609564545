package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/pianovision/fingering"
	"github.com/jsphweid/pianovision/model"
	"github.com/jsphweid/pianovision/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <song file>",
	Short: "Inspects a song file",
	Long:  `Inspects a song file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		inspect(song)
		return nil
	},
}

func inspect(song *model.Song) {
	fmt.Printf("name: %v\n", song.Name)
	fmt.Printf("artist: %v\n", song.Artist)
	fmt.Printf("resolution: %v\n", song.Resolution)
	fmt.Printf("length: %.3fs\n", song.SongLength)
	fmt.Printf("tempos: %v\n", len(song.Tempos))
	for _, t := range song.Tempos {
		fmt.Printf("  %.1f bpm at tick %v (%.3fs)\n", t.BPM, t.Ticks, t.Time)
	}

	tracks := song.TracksV2
	for _, hand := range []model.Hand{model.HandRight, model.HandLeft} {
		fmt.Printf("%v hand: %v measures, %v notes\n",
			hand, tracks.MeasureCount(hand), tracks.NoteCount(hand))
	}

	unfingered := fingering.Unfingered(tracks)
	for _, hand := range []model.Hand{model.HandRight, model.HandLeft} {
		byMeasure := unfingered[hand]
		if len(byMeasure) == 0 {
			continue
		}
		counts := make([]int, 0, len(byMeasure))
		for _, i := range util.GetKeysSorted(byMeasure) {
			counts = append(counts, len(byMeasure[i]))
		}
		fmt.Printf("%v hand unfingered: %v notes in %v measures\n", hand, util.Sum(counts), len(byMeasure))
	}
}
