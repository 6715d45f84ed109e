// Package tempo maps between absolute time in seconds and bar positions
// for a piecewise-constant tempo timeline with one fixed numerator.
package tempo

import (
	"math"

	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/util"
	"github.com/pkg/errors"
)

var (
	ErrInvalidTimeSignature = errors.New("time signature numerator must be 2, 3 or 4")
	ErrNoTempoChanges       = errors.New("no tempo changes")
	ErrUnsortedTempoChanges = errors.New("tempo changes are not strictly ascending by time")
	ErrInvalidTempo         = errors.New("invalid tempo change")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrBarOutOfRange        = errors.New("bar out of range")
	ErrSegmentOutOfRange    = errors.New("tempo segment out of range")
	ErrTooManyBars          = errors.New("too many bars")
)

// MaxBars bounds TotalBars so per-bar work stays small.
const MaxBars = 1e6

func checkTotalBars(total float64) error {
	if !(total <= MaxBars) {
		return errors.Wrapf(ErrTooManyBars, "%v bars, at most %v", total, MaxBars)
	}
	return nil
}

// Segment is a maximal interval [Start, End) with a constant BPM.
type Segment struct {
	Start          float64
	End            float64
	BPM            float64
	SecondsPerBar  float64
	Bars           float64
	CumulativeBars float64
}

// Map is immutable once built and safe for concurrent readers.
type Map struct {
	numerator int
	duration  float64
	fixed     bool
	segments  []Segment
	totalBars float64
}

func SecondsPerBar(bpm float64, numerator int) float64 {
	return (60 / bpm) * float64(numerator)
}

func validNumerator(numerator int) bool {
	return numerator == 2 || numerator == 3 || numerator == 4
}

func validBPM(bpm float64) bool {
	return bpm > 0 && !math.IsInf(bpm, 1)
}

// Build segments the timeline at every tempo change. Segment k runs from
// change k to change k+1; the last one runs to duration. The first segment
// always starts at 0.
//
// Each segment's bar count is rounded half-to-even on its own before the
// counts are summed, so TotalBars is generally not the rounded bar count of
// the whole file.
func Build(changes []model.TempoChange, numerator int, duration float64) (*Map, error) {
	if !validNumerator(numerator) {
		return nil, errors.Wrapf(ErrInvalidTimeSignature, "got %d", numerator)
	}
	if len(changes) == 0 {
		return nil, ErrNoTempoChanges
	}
	if duration < 0 || math.IsNaN(duration) {
		return nil, errors.Wrapf(ErrInvalidDuration, "got %v", duration)
	}
	for i, c := range changes {
		if !validBPM(c.BPM) || c.Time < 0 || math.IsNaN(c.Time) {
			return nil, errors.Wrapf(ErrInvalidTempo, "change %d: %v bpm at %vs", i, c.BPM, c.Time)
		}
		if i > 0 && c.Time <= changes[i-1].Time {
			return nil, errors.Wrapf(ErrUnsortedTempoChanges, "change %d at %vs follows %vs", i, c.Time, changes[i-1].Time)
		}
	}

	segments := make([]Segment, len(changes))
	bars := make([]float64, len(changes))
	for i, c := range changes {
		var start float64
		if i > 0 {
			start = c.Time
		}
		end := util.Max(duration, start)
		if i < len(changes)-1 {
			end = changes[i+1].Time
		}
		spb := SecondsPerBar(c.BPM, numerator)
		bars[i] = math.RoundToEven((end - start) / spb)
		segments[i] = Segment{
			Start:         start,
			End:           end,
			BPM:           c.BPM,
			SecondsPerBar: spb,
			Bars:          bars[i],
		}
	}
	for i, cumulative := range util.PrefixSums(bars) {
		segments[i].CumulativeBars = cumulative
	}
	totalBars := math.Ceil(util.Sum(bars))
	if err := checkTotalBars(totalBars); err != nil {
		return nil, err
	}

	return &Map{
		numerator: numerator,
		duration:  util.Max(duration, segments[len(segments)-1].End),
		segments:  segments,
		totalBars: totalBars,
	}, nil
}

// BuildFixed ignores the file's tempo changes and uses bpm throughout.
// TotalBars is then the exact, unrounded duration/seconds-per-bar.
func BuildFixed(bpm float64, numerator int, duration float64) (*Map, error) {
	if !validNumerator(numerator) {
		return nil, errors.Wrapf(ErrInvalidTimeSignature, "got %d", numerator)
	}
	if !validBPM(bpm) {
		return nil, errors.Wrapf(ErrInvalidTempo, "%v bpm", bpm)
	}
	if duration < 0 || math.IsNaN(duration) {
		return nil, errors.Wrapf(ErrInvalidDuration, "got %v", duration)
	}

	spb := SecondsPerBar(bpm, numerator)
	total := duration / spb
	if err := checkTotalBars(total); err != nil {
		return nil, err
	}
	return &Map{
		numerator: numerator,
		duration:  duration,
		fixed:     true,
		segments: []Segment{{
			Start:          0,
			End:            duration,
			BPM:            bpm,
			SecondsPerBar:  spb,
			Bars:           total,
			CumulativeBars: total,
		}},
		totalBars: total,
	}, nil
}

func (m *Map) Numerator() int {
	return m.numerator
}

func (m *Map) Duration() float64 {
	return m.duration
}

func (m *Map) Fixed() bool {
	return m.fixed
}

func (m *Map) TotalBars() float64 {
	return m.totalBars
}

func (m *Map) NumSegments() int {
	return len(m.segments)
}

func (m *Map) Segments() []Segment {
	return append([]Segment(nil), m.segments...)
}

// CumulativeBarsAtChange is the bar index at which change k+1 takes effect.
func (m *Map) CumulativeBarsAtChange(k int) (float64, error) {
	if k < 0 || k >= len(m.segments) {
		return 0, errors.Wrapf(ErrSegmentOutOfRange, "segment %d of %d", k, len(m.segments))
	}
	return m.segments[k].CumulativeBars, nil
}

// SecondsPerBarAtBar attributes whole bars to one tempo: a change that
// lands mid-bar takes effect from the next bar on. Bars past the end keep
// the last tempo.
func (m *Map) SecondsPerBarAtBar(bar int) float64 {
	for _, s := range m.segments {
		if float64(bar) < s.CumulativeBars {
			return s.SecondsPerBar
		}
	}
	return m.segments[len(m.segments)-1].SecondsPerBar
}

// BarDurations holds the seconds of every bar, partial last bar included.
func (m *Map) BarDurations() []float64 {
	res := make([]float64, int(math.Ceil(m.totalBars)))
	m.walkBars(len(res), func(bar int, spb float64) {
		res[bar] = spb
	})
	return res
}

// walkBars calls fn for bars 0..n-1 in order with SecondsPerBarAtBar(bar),
// advancing through the segments once.
func (m *Map) walkBars(n int, fn func(bar int, spb float64)) {
	k := 0
	for bar := 0; bar < n; bar++ {
		for k < len(m.segments)-1 && float64(bar) >= m.segments[k].CumulativeBars {
			k++
		}
		fn(bar, m.segments[k].SecondsPerBar)
	}
}

// BarRangeToTimeRange converts [startBar, endBar) into seconds.
func (m *Map) BarRangeToTimeRange(startBar, endBar int) (float64, float64, error) {
	if startBar < 0 || endBar < startBar {
		return 0, 0, errors.Wrapf(ErrBarOutOfRange, "invalid range [%d, %d)", startBar, endBar)
	}
	if float64(endBar) > m.totalBars {
		return 0, 0, errors.Wrapf(ErrBarOutOfRange, "end bar %d exceeds %v bars", endBar, m.totalBars)
	}

	var startTime, endTime float64
	m.walkBars(endBar, func(bar int, spb float64) {
		if bar == startBar {
			startTime = endTime
		}
		endTime += spb
	})
	if startBar == endBar {
		startTime = endTime
	}
	return startTime, endTime, nil
}

// SegmentAt returns the index of the segment containing t. Times before 0
// belong to the first segment, times past the end to the last.
func (m *Map) SegmentAt(t float64) int {
	res := 0
	for i, s := range m.segments {
		if t >= s.Start {
			res = i
		}
	}
	return res
}

// BarAt is the fractional bar position of t, measured on the rounded
// per-segment bar grid.
func (m *Map) BarAt(t float64) float64 {
	k := m.SegmentAt(t)
	s := m.segments[k]
	return s.CumulativeBars - s.Bars + (t-s.Start)/s.SecondsPerBar
}
