package midi

import (
	"bytes"
	"os"

	"github.com/jsphweid/midibars/logger"
	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrNotMidiPath           = errors.New("path does not correspond to a .mid or .midi file")
	ErrUnsupportedTimeFormat = errors.New("unsupported time format, expected metric ticks")
)

// File is everything the bar engine needs from one MIDI file.
type File struct {
	Path         string
	Tracks       []model.TrackRecord
	TempoChanges []model.TempoChange
	// Duration is the end of the last note or tempo change, in seconds.
	Duration float64
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	if !util.IsMidiPath(filepath) {
		return nil, errors.Wrap(ErrNotMidiPath, filepath)
	}

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Errorf("Error parsing midi file %s... %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "Error parsing midi file")
	}

	return res, nil
}

func Load(filepath string) (*File, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	f, err := Extract(s)
	if err != nil {
		return nil, errors.Wrapf(err, "extracting %s", filepath)
	}
	f.Path = filepath

	logger.GetLogger().WithFields(logrus.Fields{
		"path":     filepath,
		"tracks":   len(f.Tracks),
		"tempos":   len(f.TempoChanges),
		"duration": f.Duration,
	}).Debug("loaded midi file")
	return f, nil
}
