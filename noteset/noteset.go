package noteset

import (
	"github.com/jsphweid/midibars/model"
	"github.com/pkg/errors"
)

var (
	ErrEmptyNoteSet = errors.New("note set is empty")
	ErrInvalidNote  = errors.New("invalid note")
)

// NoteSet is an immutable, ordered, columnar set of notes for one track.
// The zero value is an empty set.
type NoteSet struct {
	pitches    []uint8
	onsets     []float64
	offsets    []float64
	velocities []uint8
}

// New validates notes and copies them into a NoteSet. Onsets may be
// negative (rebased sets) but never after their offset.
func New(notes model.Notes) (NoteSet, error) {
	for i, n := range notes {
		if err := validate(n); err != nil {
			return NoteSet{}, errors.Wrapf(err, "note %d", i)
		}
	}
	return fromNotes(notes), nil
}

func validate(n model.Note) error {
	if n.Pitch > 127 {
		return errors.Wrapf(ErrInvalidNote, "pitch %v out of range", n.Pitch)
	}
	if n.Velocity > 127 {
		return errors.Wrapf(ErrInvalidNote, "velocity %v out of range", n.Velocity)
	}
	if n.Offset < n.Onset {
		return errors.Wrapf(ErrInvalidNote, "offset %v before onset %v", n.Offset, n.Onset)
	}
	return nil
}

func fromNotes(notes model.Notes) NoteSet {
	ns := NoteSet{
		pitches:    make([]uint8, len(notes)),
		onsets:     make([]float64, len(notes)),
		offsets:    make([]float64, len(notes)),
		velocities: make([]uint8, len(notes)),
	}
	for i, n := range notes {
		ns.pitches[i] = n.Pitch
		ns.onsets[i] = n.Onset
		ns.offsets[i] = n.Offset
		ns.velocities[i] = n.Velocity
	}
	return ns
}

func (ns NoteSet) Len() int {
	return len(ns.pitches)
}

func (ns NoteSet) IsEmpty() bool {
	return ns.Len() == 0
}

// At panics if i is out of range, like slice indexing.
func (ns NoteSet) At(i int) model.Note {
	return model.Note{
		Pitch:    ns.pitches[i],
		Onset:    ns.onsets[i],
		Offset:   ns.offsets[i],
		Velocity: ns.velocities[i],
	}
}

func (ns NoteSet) Notes() model.Notes {
	res := make(model.Notes, ns.Len())
	for i := range res {
		res[i] = ns.At(i)
	}
	return res
}

func (ns NoteSet) Pitches() []uint8 {
	return append([]uint8(nil), ns.pitches...)
}

func (ns NoteSet) Onsets() []float64 {
	return append([]float64(nil), ns.onsets...)
}

func (ns NoteSet) Offsets() []float64 {
	return append([]float64(nil), ns.offsets...)
}

func (ns NoteSet) Velocities() []uint8 {
	return append([]uint8(nil), ns.velocities...)
}

// FirstOnset is the onset of the first note in set order, which for
// loader output is the earliest onset.
func (ns NoteSet) FirstOnset() (float64, error) {
	if ns.IsEmpty() {
		return 0, ErrEmptyNoteSet
	}
	return ns.onsets[0], nil
}

// MinOnset is the smallest onset regardless of order.
func (ns NoteSet) MinOnset() (float64, error) {
	if ns.IsEmpty() {
		return 0, ErrEmptyNoteSet
	}
	res := ns.onsets[0]
	for _, v := range ns.onsets[1:] {
		if v < res {
			res = v
		}
	}
	return res, nil
}

// EndTime is the largest offset, 0 for an empty set.
func (ns NoteSet) EndTime() float64 {
	var res float64
	for _, v := range ns.offsets {
		if v > res {
			res = v
		}
	}
	return res
}

// Filter keeps the notes for which keep returns true, in order.
func (ns NoteSet) Filter(keep func(model.Note) bool) NoteSet {
	var res model.Notes
	for i := 0; i < ns.Len(); i++ {
		if n := ns.At(i); keep(n) {
			res = append(res, n)
		}
	}
	return fromNotes(res)
}

// Shift moves every onset and offset by delta.
func (ns NoteSet) Shift(delta float64) NoteSet {
	res := NoteSet{
		pitches:    ns.Pitches(),
		onsets:     ns.Onsets(),
		offsets:    ns.Offsets(),
		velocities: ns.Velocities(),
	}
	for i := range res.onsets {
		res.onsets[i] += delta
		res.offsets[i] += delta
	}
	return res
}

// Equal reports whether both sets hold the same notes in the same order.
func (ns NoteSet) Equal(other NoteSet) bool {
	if ns.Len() != other.Len() {
		return false
	}
	for i := 0; i < ns.Len(); i++ {
		if ns.At(i) != other.At(i) {
			return false
		}
	}
	return true
}
