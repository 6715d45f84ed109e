package cmd

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/midibars/catalog"
	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/midi"
	"github.com/jsphweid/midibars/noteset"
	"github.com/jsphweid/midibars/tempo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// song is a loaded MIDI file with its tracks cataloged.
type song struct {
	file    *midi.File
	catalog *catalog.Catalog
}

func loadSong(path string) (*song, error) {
	f, err := midi.Load(path)
	if err != nil {
		return nil, err
	}
	c, err := catalog.Build(f.Tracks)
	if err != nil {
		return nil, errors.Wrapf(err, "cataloging %s", path)
	}
	return &song{file: f, catalog: c}, nil
}

// tempoMap uses the file's tempo changes unless bpm is nonzero.
func (s *song) tempoMap(numerator int, bpm float64) (*tempo.Map, error) {
	if bpm != 0 {
		return tempo.BuildFixed(bpm, numerator, s.file.Duration)
	}
	return tempo.Build(s.file.TempoChanges, numerator, s.file.Duration)
}

// trackSelector picks a track by name, else by program, else by index.
type trackSelector struct {
	name    string
	program int
	index   int
}

func (ts *trackSelector) register(c *cobra.Command) {
	c.Flags().StringVar(&ts.name, "name", "", "select the first track with this name")
	c.Flags().IntVar(&ts.program, "program", -1, "select the first track with this program number")
	c.Flags().IntVar(&ts.index, "index", 0, "select the track with this index")
}

func (ts *trackSelector) pick(c *catalog.Catalog) (catalog.Track, error) {
	switch {
	case ts.name != "":
		return c.FindByName(ts.name)
	case ts.program >= 0:
		if ts.program > 127 {
			return catalog.Track{}, errors.Errorf("program %d out of range", ts.program)
		}
		return c.FindByProgram(uint8(ts.program))
	default:
		return c.FindByIndex(ts.index)
	}
}

func writeOptions(t catalog.Track) midi.WriteOptions {
	opts := midi.WriteOptions{Name: t.Name, Program: t.Program}
	if t.IsDrum {
		opts.Channel = constants.DrumChannel
	}
	return opts
}

// outputPath falls back to a fresh file name in the output dir.
func outputPath(out string) (string, error) {
	if out == "" {
		out = filepath.Join(constants.GetOutDir(), uuid.New().String()+".mid")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", errors.Wrap(err, "Could not create output dir")
	}
	return out, nil
}

func saveTrack(out string, t catalog.Track, notes noteset.NoteSet) (string, error) {
	path, err := outputPath(out)
	if err != nil {
		return "", err
	}
	if err := midi.WriteFile(path, notes, writeOptions(t)); err != nil {
		return "", err
	}
	return path, nil
}
