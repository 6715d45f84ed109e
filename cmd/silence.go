package cmd

import (
	"fmt"

	"github.com/jsphweid/midibars/cutter"
	"github.com/jsphweid/midibars/logger"
	"github.com/spf13/cobra"
)

var silenceOpts struct {
	track trackSelector
	out   string
}

func init() {
	silenceOpts.track.register(silenceCmd)
	silenceCmd.Flags().StringVarP(&silenceOpts.out, "out", "o", "", "output file (default: a new file in OUT_PATH)")
	rootCmd.AddCommand(silenceCmd)
}

var silenceCmd = &cobra.Command{
	Use:   "silence <file>",
	Short: "Cuts the initial silence of a track",
	Long: `Cuts the initial silence of a track. The silence ends at the first
note of the file taking all tracks into account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSong(args[0])
		if err != nil {
			return err
		}
		start, err := s.catalog.FirstOnset()
		if err != nil {
			return err
		}
		track, err := silenceOpts.track.pick(s.catalog)
		if err != nil {
			return err
		}
		notes := cutter.CutInitialSilence(track.Notes, start)
		path, err := saveTrack(silenceOpts.out, track, notes)
		if err != nil {
			return err
		}

		logger.GetLogger().Infof("cut %.3fs of silence from track %d into %s", start, track.Index, path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d notes\n", path, notes.Len())
		return nil
	},
}
