package cutter

import (
	"context"

	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/noteset"
	"github.com/jsphweid/midibars/tempo"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BarRange is the half-open bar interval [Start, End).
type BarRange struct {
	Start int
	End   int
}

// included applies the inclusion rule. A note with a nonzero onset is
// admitted by its onset, any note by its offset; so a note starting at
// exactly 0 is only kept when its offset reaches start.
func included(n model.Note, start, end float64, bounded bool) bool {
	if !((n.Onset != 0 && n.Onset >= start) || n.Offset >= start) {
		return false
	}
	return !bounded || n.Offset <= end
}

func cut(notes noteset.NoteSet, start, end float64, bounded bool) noteset.NoteSet {
	kept := notes.Filter(func(n model.Note) bool {
		return included(n, start, end, bounded)
	})
	// rebased onsets may go negative for notes held over start
	return kept.Shift(-start)
}

// Cut keeps the notes inside [start, end] and rebases them so start is 0.
func Cut(notes noteset.NoteSet, start, end float64) noteset.NoteSet {
	return cut(notes, start, end, true)
}

// CutFrom is Cut without an end bound.
func CutFrom(notes noteset.NoteSet, start float64) noteset.NoteSet {
	return cut(notes, start, 0, false)
}

func CutInitialSilence(notes noteset.NoteSet, referenceStart float64) noteset.NoteSet {
	return CutFrom(notes, referenceStart)
}

// TrimInitialSilence cuts relative to the set's own first onset.
func TrimInitialSilence(notes noteset.NoteSet) (noteset.NoteSet, error) {
	first, err := notes.FirstOnset()
	if err != nil {
		return noteset.NoteSet{}, errors.Wrap(err, "cannot trim initial silence")
	}
	return CutInitialSilence(notes, first), nil
}

// Window is a bar cut with the time range it was taken from.
type Window struct {
	Start float64
	End   float64
	Notes noteset.NoteSet
}

func CutBarWindow(notes noteset.NoteSet, m *tempo.Map, startBar, endBar int) (Window, error) {
	start, end, err := m.BarRangeToTimeRange(startBar, endBar)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end, Notes: Cut(notes, start, end)}, nil
}

func CutByBars(notes noteset.NoteSet, m *tempo.Map, startBar, endBar int) (noteset.NoteSet, error) {
	win, err := CutBarWindow(notes, m, startBar, endBar)
	if err != nil {
		return noteset.NoteSet{}, err
	}
	return win.Notes, nil
}

// CutBarRanges cuts every range concurrently. Results keep the order of
// ranges; on error no results are returned.
func CutBarRanges(ctx context.Context, notes noteset.NoteSet, m *tempo.Map, ranges []BarRange) ([]noteset.NoteSet, error) {
	res := make([]noteset.NoteSet, len(ranges))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ns, err := CutByBars(notes, m, r.Start, r.End)
			if err != nil {
				return errors.Wrapf(err, "range [%d, %d)", r.Start, r.End)
			}
			res[i] = ns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
