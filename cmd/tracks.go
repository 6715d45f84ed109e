package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tracksCmd)
}

var tracksCmd = &cobra.Command{
	Use:   "tracks <file>",
	Short: "Lists the tracks of a MIDI file",
	Long:  `Lists the tracks of a MIDI file with their index, program, name and drum flag.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSong(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, t := range s.catalog.Tracks() {
			fmt.Fprintf(out, "Track no: %d | Program no: %d | Track name: %s | is drum: %v | notes: %d\n",
				t.Index, t.Program, t.Name, t.IsDrum, t.Notes.Len())
		}
		return nil
	},
}
