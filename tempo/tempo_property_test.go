package tempo

import (
	"math"
	"testing"

	"github.com/jsphweid/midibars/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Tempos whose bar lengths are exact in binary floating point for every
// supported numerator.
var alignedBPMs = []float64{30, 60, 120, 240}

func TestFixedTotalBarsIsUnroundedProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total bars is duration over seconds per bar", prop.ForAll(
		func(numerator int, bpm float64, duration float64) bool {
			m, err := BuildFixed(bpm, numerator, duration)
			if err != nil {
				return false
			}
			return m.TotalBars() == duration/((60/bpm)*float64(numerator))
		},
		gen.IntRange(2, 4),
		gen.Float64Range(20, 300),
		gen.Float64Range(0, 900),
	))

	properties.TestingRun(t)
}

func TestMultiSegmentTotalBarsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total bars is the ceiling of per-segment rounded bars", prop.ForAll(
		func(numerator int, lengths []float64, bpms []float64) bool {
			var changes []model.TempoChange
			var at float64
			for i, length := range lengths {
				changes = append(changes, model.TempoChange{Time: at, BPM: bpms[i]})
				at += length
			}
			m, err := Build(changes, numerator, at)
			if err != nil {
				return false
			}

			var sum float64
			for i, c := range changes {
				end := at
				if i < len(changes)-1 {
					end = changes[i+1].Time
				}
				sum += math.RoundToEven((end - c.Time) / SecondsPerBar(c.BPM, numerator))
			}
			return m.TotalBars() == math.Ceil(sum)
		},
		gen.IntRange(2, 4),
		gen.SliceOfN(5, gen.Float64Range(0.5, 40)),
		gen.SliceOfN(5, gen.Float64Range(30, 240)),
	))

	properties.TestingRun(t)
}

func TestBarAlignedRangeSpansDurationProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bars [0, total) span [0, duration)", prop.ForAll(
		func(numerator int, barCounts []int, bpmIdx []int) bool {
			var changes []model.TempoChange
			var at float64
			for i, bars := range barCounts {
				bpm := alignedBPMs[bpmIdx[i]]
				changes = append(changes, model.TempoChange{Time: at, BPM: bpm})
				at += float64(bars) * SecondsPerBar(bpm, numerator)
			}
			m, err := Build(changes, numerator, at)
			if err != nil {
				return false
			}
			start, end, err := m.BarRangeToTimeRange(0, int(m.TotalBars()))
			return err == nil && start == 0 && end == at
		},
		gen.IntRange(2, 4),
		gen.SliceOfN(4, gen.IntRange(1, 8)),
		gen.SliceOfN(4, gen.IntRange(0, len(alignedBPMs)-1)),
	))

	properties.TestingRun(t)
}
