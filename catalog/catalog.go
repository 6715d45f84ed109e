package catalog

import (
	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/noteset"
	"github.com/pkg/errors"
)

var ErrTrackNotFound = errors.New("track not found")

type Track struct {
	Index   int
	Program uint8
	Name    string
	IsDrum  bool
	Notes   noteset.NoteSet
}

func (t Track) Summary() model.TrackSummary {
	return model.TrackSummary{
		Index:    t.Index,
		Program:  t.Program,
		Name:     t.Name,
		IsDrum:   t.IsDrum,
		NumNotes: t.Notes.Len(),
	}
}

// Catalog holds a file's tracks in file order and is read-only after Build.
//
// Names and programs are not unique across tracks. Every Find method
// returns the first match in file order and ignores later ones.
type Catalog struct {
	tracks []Track
}

func Build(records []model.TrackRecord) (*Catalog, error) {
	c := &Catalog{tracks: make([]Track, 0, len(records))}
	for _, r := range records {
		if r.Program > 127 {
			return nil, errors.Errorf("track %d: program %d out of range", r.Index, r.Program)
		}
		notes, err := noteset.New(r.Notes)
		if err != nil {
			return nil, errors.Wrapf(err, "track %d (%q)", r.Index, r.Name)
		}
		c.tracks = append(c.tracks, Track{
			Index:   r.Index,
			Program: r.Program,
			Name:    r.Name,
			IsDrum:  r.IsDrum,
			Notes:   notes,
		})
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.tracks)
}

func (c *Catalog) Tracks() []Track {
	return append([]Track(nil), c.tracks...)
}

func (c *Catalog) find(match func(Track) bool) (Track, bool) {
	for _, t := range c.tracks {
		if match(t) {
			return t, true
		}
	}
	return Track{}, false
}

func (c *Catalog) FindByName(name string) (Track, error) {
	t, ok := c.find(func(t Track) bool { return t.Name == name })
	if !ok {
		return Track{}, errors.Wrapf(ErrTrackNotFound, "no track named %q", name)
	}
	return t, nil
}

func (c *Catalog) FindByProgram(program uint8) (Track, error) {
	t, ok := c.find(func(t Track) bool { return t.Program == program })
	if !ok {
		return Track{}, errors.Wrapf(ErrTrackNotFound, "no track with program %d", program)
	}
	return t, nil
}

func (c *Catalog) FindByIndex(i int) (Track, error) {
	t, ok := c.find(func(t Track) bool { return t.Index == i })
	if !ok {
		return Track{}, errors.Wrapf(ErrTrackNotFound, "no track with index %d", i)
	}
	return t, nil
}

// FirstOnset is the earliest onset over all tracks: the point where the
// file's initial silence ends.
func (c *Catalog) FirstOnset() (float64, error) {
	var res float64
	found := false
	for _, t := range c.tracks {
		onset, err := t.Notes.MinOnset()
		if err != nil {
			continue
		}
		if !found || onset < res {
			res = onset
			found = true
		}
	}
	if !found {
		return 0, errors.Wrap(noteset.ErrEmptyNoteSet, "no notes in any track")
	}
	return res, nil
}

// EndTime is the largest offset over all tracks.
func (c *Catalog) EndTime() float64 {
	var res float64
	for _, t := range c.tracks {
		if end := t.Notes.EndTime(); end > res {
			res = end
		}
	}
	return res
}
