package cmd

import (
	"fmt"

	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/cutter"
	"github.com/jsphweid/midibars/logger"
	"github.com/spf13/cobra"
)

var cutOpts struct {
	track     trackSelector
	startBar  int
	endBar    int
	numerator int
	bpm       float64
	out       string
}

func init() {
	cutOpts.track.register(cutCmd)
	cutCmd.Flags().IntVar(&cutOpts.startBar, "start", 0, "first bar to keep")
	cutCmd.Flags().IntVar(&cutOpts.endBar, "end", 0, "bar to stop before")
	cutCmd.Flags().IntVarP(&cutOpts.numerator, "numerator", "n", constants.DefaultNumerator, "beats per bar: 2, 3 or 4")
	cutCmd.Flags().Float64Var(&cutOpts.bpm, "bpm", 0, "use a fixed tempo instead of the file's tempo changes")
	cutCmd.Flags().StringVarP(&cutOpts.out, "out", "o", "", "output file (default: a new file in OUT_PATH)")
	cutCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(cutCmd)
}

var cutCmd = &cobra.Command{
	Use:   "cut <file>",
	Short: "Cuts a track to a bar range",
	Long: `Cuts one track to the bars [start, end) and writes it as a new MIDI
file whose time starts at the first kept bar.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSong(args[0])
		if err != nil {
			return err
		}
		m, err := s.tempoMap(cutOpts.numerator, cutOpts.bpm)
		if err != nil {
			return err
		}
		track, err := cutOpts.track.pick(s.catalog)
		if err != nil {
			return err
		}
		notes, err := cutter.CutByBars(track.Notes, m, cutOpts.startBar, cutOpts.endBar)
		if err != nil {
			return err
		}
		path, err := saveTrack(cutOpts.out, track, notes)
		if err != nil {
			return err
		}

		logger.GetLogger().Infof("cut bars [%d, %d) of track %d into %s", cutOpts.startBar, cutOpts.endBar, track.Index, path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d notes\n", path, notes.Len())
		return nil
	},
}
