package cmd

import (
	"fmt"

	"github.com/jsphweid/midibars/constants"
	"github.com/spf13/cobra"
)

var barsOpts struct {
	numerator int
	bpm       float64
	durations bool
	at        []float64
}

func init() {
	barsCmd.Flags().IntVarP(&barsOpts.numerator, "numerator", "n", constants.DefaultNumerator, "beats per bar: 2, 3 or 4")
	barsCmd.Flags().Float64Var(&barsOpts.bpm, "bpm", 0, "use a fixed tempo instead of the file's tempo changes")
	barsCmd.Flags().BoolVar(&barsOpts.durations, "durations", false, "print the duration of every bar")
	barsCmd.Flags().Float64SliceVar(&barsOpts.at, "at", nil, "print the bar position of these times in seconds")
	rootCmd.AddCommand(barsCmd)
}

var barsCmd = &cobra.Command{
	Use:   "bars <file>",
	Short: "Counts the bars of a MIDI file",
	Long: `Counts the bars of a MIDI file. Each tempo segment is rounded to whole
bars on its own. The file is not quantized, so counts may differ from a DAW.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSong(args[0])
		if err != nil {
			return err
		}
		m, err := s.tempoMap(barsOpts.numerator, barsOpts.bpm)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "duration: %.3fs\n", m.Duration())
		fmt.Fprintf(out, "bars: %v (%d/4)\n", m.TotalBars(), m.Numerator())
		fmt.Fprintf(out, "segments: %d\n", m.NumSegments())
		for i, seg := range m.Segments() {
			fmt.Fprintf(out, "segment %d: %.3fs-%.3fs %.2f bpm, %.3fs per bar, %v bars, ends at bar %v\n",
				i, seg.Start, seg.End, seg.BPM, seg.SecondsPerBar, seg.Bars, seg.CumulativeBars)
		}
		if barsOpts.durations {
			for i, d := range m.BarDurations() {
				fmt.Fprintf(out, "bar %d: %.3fs\n", i, d)
			}
		}
		for _, t := range barsOpts.at {
			fmt.Fprintf(out, "%.3fs: bar %.3f (segment %d)\n", t, m.BarAt(t), m.SegmentAt(t))
		}
		return nil
	},
}
