package midi

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/noteset"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type WriteOptions struct {
	Name    string
	Program uint8
	Channel uint8
	// 0 means constants.DefaultBPM
	BPM float64
}

type timedMessage struct {
	tick int64
	// ordering within a tick: note offs, note ons, offs of zero-length notes
	rank int
	msg  []byte
}

// Create builds a single-instrument SMF at a fixed tempo. Notes before 0
// (rebased cuts) start at tick 0.
func Create(notes noteset.NoteSet, opts WriteOptions) (*smf.SMF, error) {
	bpm := opts.BPM
	if bpm == 0 {
		bpm = constants.DefaultBPM
	}
	if bpm < 0 || opts.Program > 127 || opts.Channel > 15 {
		return nil, errors.Errorf("invalid write options: %+v", opts)
	}

	ticksPerSecond := bpm / 60 * constants.TicksPerQuarter
	toTick := func(sec float64) int64 {
		if sec <= 0 {
			return 0
		}
		return int64(math.Round(sec * ticksPerSecond))
	}

	var events []timedMessage
	for _, n := range notes.Notes() {
		velocity := n.Velocity
		if velocity == 0 {
			velocity = constants.DefaultVelocity
		}
		on, off := toTick(n.Onset), toTick(n.Offset)
		offRank := 0
		if off == on {
			offRank = 2
		}
		events = append(events,
			timedMessage{tick: on, rank: 1, msg: gomidi.NoteOn(opts.Channel, n.Pitch, velocity)},
			timedMessage{tick: off, rank: offRank, msg: gomidi.NoteOff(opts.Channel, n.Pitch)},
		)
	}

	// prioritize smaller ticks then note off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].rank < events[j].rank
	})

	var track smf.Track
	if opts.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	track.Add(0, smf.MetaTempo(bpm))
	track.Add(0, gomidi.ProgramChange(opts.Channel, opts.Program))
	var absTicks int64
	for _, evt := range events {
		track.Add(uint32(evt.tick-absTicks), evt.msg)
		absTicks = evt.tick
	}
	track.Close(0)

	res := smf.NewSMF1()
	res.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	if err := res.Add(track); err != nil {
		return nil, errors.Wrap(err, "adding track")
	}
	return res, nil
}

func Write(w io.Writer, notes noteset.NoteSet, opts WriteOptions) error {
	s, err := Create(notes, opts)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

func WriteFile(path string, notes noteset.NoteSet, opts WriteOptions) (e error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Couldn't open file: "+path)
	}
	defer func() {
		if err := f.Close(); err != nil && e == nil {
			e = err
		}
	}()
	return Write(f, notes, opts)
}
