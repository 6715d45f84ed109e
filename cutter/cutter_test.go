package cutter

import (
	"context"
	"testing"

	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/noteset"
	"github.com/jsphweid/midibars/tempo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSet(t *testing.T, notes model.Notes) noteset.NoteSet {
	t.Helper()
	ns, err := noteset.New(notes)
	require.NoError(t, err)
	return ns
}

func scenarioNotes(t *testing.T) noteset.NoteSet {
	return newSet(t, model.Notes{
		{Pitch: 60, Onset: 0, Offset: 1},
		{Pitch: 62, Onset: 3, Offset: 5},
		{Pitch: 64, Onset: 5, Offset: 8},
		{Pitch: 65, Onset: 11, Offset: 12, Velocity: 80},
		{Pitch: 67, Onset: 13, Offset: 15},
	})
}

func scenarioMap(t *testing.T) *tempo.Map {
	t.Helper()
	m, err := tempo.Build([]model.TempoChange{{Time: 0, BPM: 120}, {Time: 10, BPM: 60}}, 4, 30)
	require.NoError(t, err)
	return m
}

func TestCutFiltersAndRebases(t *testing.T) {
	notes := scenarioNotes(t)
	res := Cut(notes, 4, 14)

	assert.Equal(t, model.Notes{
		{Pitch: 62, Onset: -1, Offset: 1},
		{Pitch: 64, Onset: 1, Offset: 4},
		{Pitch: 65, Onset: 7, Offset: 8, Velocity: 80},
	}, res.Notes())
	assert.Equal(t, 5, notes.Len(), "input must be untouched")
	assert.Equal(t, 0.0, notes.At(0).Onset)
}

func TestCutOnsetZeroQuirk(t *testing.T) {
	notes := newSet(t, model.Notes{
		{Pitch: 36, Onset: 0, Offset: 2},
		{Pitch: 38, Onset: 0, Offset: 0.5},
		{Pitch: 40, Onset: 0.5, Offset: 0.75},
	})

	// a note starting at 0 is only admitted through its offset
	res := Cut(notes, 1, 10)
	assert.Equal(t, model.Notes{{Pitch: 36, Onset: -1, Offset: 1}}, res.Notes())

	// at start 0 the offset clause admits every note
	assert.Equal(t, 3, Cut(notes, 0, 10).Len())
}

func TestCutEndBoundUsesOffset(t *testing.T) {
	notes := newSet(t, model.Notes{
		{Pitch: 60, Onset: 1, Offset: 3},
		{Pitch: 61, Onset: 2, Offset: 4.5},
	})
	res := Cut(notes, 0, 4)
	assert.Equal(t, []uint8{60}, res.Pitches())
}

func TestCutFromHasNoEndBound(t *testing.T) {
	res := CutFrom(scenarioNotes(t), 4)
	assert.Equal(t, []uint8{62, 64, 65, 67}, res.Pitches())
	assert.Equal(t, []float64{-1, 1, 7, 9}, res.Onsets())
}

func TestCutInitialSilence(t *testing.T) {
	notes := newSet(t, model.Notes{
		{Pitch: 60, Onset: 2.5, Offset: 3},
		{Pitch: 62, Onset: 3, Offset: 3},
	})

	res := CutInitialSilence(notes, 2.5)
	assert.Equal(t, model.Notes{
		{Pitch: 60, Onset: 0, Offset: 0.5},
		{Pitch: 62, Onset: 0.5, Offset: 0.5},
	}, res.Notes())

	trimmed, err := TrimInitialSilence(notes)
	assert.NoError(t, err)
	assert.True(t, trimmed.Equal(res))
}

func TestTrimInitialSilenceEmpty(t *testing.T) {
	_, err := TrimInitialSilence(noteset.NoteSet{})
	assert.ErrorIs(t, err, noteset.ErrEmptyNoteSet)
}

func TestCutByBars(t *testing.T) {
	res, err := CutByBars(scenarioNotes(t), scenarioMap(t), 2, 6)
	require.NoError(t, err)
	assert.True(t, res.Equal(Cut(scenarioNotes(t), 4, 14)))
}

func TestCutBarWindow(t *testing.T) {
	win, err := CutBarWindow(scenarioNotes(t), scenarioMap(t), 2, 6)
	require.NoError(t, err)
	assert.Equal(t, 4.0, win.Start)
	assert.Equal(t, 14.0, win.End)
	assert.True(t, win.Notes.Equal(Cut(scenarioNotes(t), 4, 14)))

	_, err = CutBarWindow(scenarioNotes(t), scenarioMap(t), 3, 2)
	assert.ErrorIs(t, err, tempo.ErrBarOutOfRange)
}

func TestCutByBarsOutOfRange(t *testing.T) {
	m, err := tempo.Build([]model.TempoChange{{Time: 0, BPM: 120}}, 4, 8)
	require.NoError(t, err)
	require.Equal(t, 4.0, m.TotalBars())

	_, err = CutByBars(scenarioNotes(t), m, 2, 6)
	assert.ErrorIs(t, err, tempo.ErrBarOutOfRange)
}

func TestCutBarRanges(t *testing.T) {
	notes := scenarioNotes(t)
	m := scenarioMap(t)

	res, err := CutBarRanges(context.Background(), notes, m, []BarRange{{0, 5}, {5, 10}, {2, 6}})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []uint8{60, 62, 64}, res[0].Pitches())
	assert.Equal(t, []uint8{65, 67}, res[1].Pitches())
	assert.Equal(t, []float64{1, 3}, res[1].Onsets())
	assert.True(t, res[2].Equal(Cut(notes, 4, 14)))
}

func TestCutBarRangesFails(t *testing.T) {
	res, err := CutBarRanges(context.Background(), scenarioNotes(t), scenarioMap(t), []BarRange{{0, 5}, {8, 12}})
	assert.ErrorIs(t, err, tempo.ErrBarOutOfRange)
	assert.Nil(t, res)
}

func TestCutBarRangesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CutBarRanges(ctx, scenarioNotes(t), scenarioMap(t), []BarRange{{0, 5}})
	assert.ErrorIs(t, err, context.Canceled)
}
