package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/cutter"
	"github.com/jsphweid/midibars/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var splitOpts struct {
	track     trackSelector
	every     int
	numerator int
	bpm       float64
	outDir    string
}

func init() {
	splitOpts.track.register(splitCmd)
	splitCmd.Flags().IntVar(&splitOpts.every, "every", 4, "bars per part")
	splitCmd.Flags().IntVarP(&splitOpts.numerator, "numerator", "n", constants.DefaultNumerator, "beats per bar: 2, 3 or 4")
	splitCmd.Flags().Float64Var(&splitOpts.bpm, "bpm", 0, "use a fixed tempo instead of the file's tempo changes")
	splitCmd.Flags().StringVarP(&splitOpts.outDir, "out-dir", "o", "", "output directory (default: OUT_PATH)")
	rootCmd.AddCommand(splitCmd)
}

// splitRanges covers whole bars only, the last part may be shorter.
func splitRanges(totalBars float64, every int) []cutter.BarRange {
	total := int(math.Floor(totalBars))
	var res []cutter.BarRange
	for start := 0; start < total; start += every {
		res = append(res, cutter.BarRange{Start: start, End: util.Min(start+every, total)})
	}
	return res
}

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Splits a track into parts of a few bars",
	Long: `Splits a track into consecutive parts of --every bars and writes each
part as its own MIDI file named after its bar range.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if splitOpts.every <= 0 {
			return errors.Errorf("--every must be positive, got %d", splitOpts.every)
		}
		s, err := loadSong(args[0])
		if err != nil {
			return err
		}
		m, err := s.tempoMap(splitOpts.numerator, splitOpts.bpm)
		if err != nil {
			return err
		}
		track, err := splitOpts.track.pick(s.catalog)
		if err != nil {
			return err
		}

		ranges := splitRanges(m.TotalBars(), splitOpts.every)
		parts, err := cutter.CutBarRanges(context.Background(), track.Notes, m, ranges)
		if err != nil {
			return err
		}

		dir := splitOpts.outDir
		if dir == "" {
			dir = constants.GetOutDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "Could not create output dir")
		}
		base := filepath.Base(args[0])
		base = strings.TrimSuffix(base, filepath.Ext(base))
		for i, r := range ranges {
			out := filepath.Join(dir, fmt.Sprintf("%s_%03d-%03d.mid", base, r.Start, r.End))
			path, err := saveTrack(out, track, parts[i])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d notes\n", path, parts[i].Len())
		}
		return nil
	},
}
