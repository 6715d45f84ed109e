package midi

import (
	"sort"

	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/logger"
	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/util"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteKey struct {
	channel uint8
	key     uint8
}

type startedNote struct {
	onset    float64
	velocity uint8
}

// Extract turns every SMF track that has notes into a TrackRecord and
// collects the tempo changes of all tracks.
//
// Notes are paired first-in first-out per channel and key, and sorted by
// onset. A note left sounding is closed at its track's last event.
func Extract(s *smf.SMF) (*File, error) {
	if _, ok := s.TimeFormat.(smf.MetricTicks); !ok {
		return nil, ErrUnsupportedTimeFormat
	}

	var f File
	var tempos []model.TempoChange
	for trackNo, track := range s.Tracks {
		rec, trackTempos := extractTrack(s, trackNo, track)
		tempos = append(tempos, trackTempos...)
		if len(rec.Notes) == 0 {
			continue
		}
		rec.Index = len(f.Tracks)
		for _, n := range rec.Notes {
			f.Duration = util.Max(f.Duration, n.Offset)
		}
		f.Tracks = append(f.Tracks, rec)
	}

	f.TempoChanges = normalizeTempos(tempos)
	f.Duration = util.Max(f.Duration, f.TempoChanges[len(f.TempoChanges)-1].Time)
	return &f, nil
}

func extractTrack(s *smf.SMF, trackNo int, track smf.Track) (model.TrackRecord, []model.TempoChange) {
	var rec model.TrackRecord
	var tempos []model.TempoChange
	var absTicks int64
	var programSet bool
	pending := make(map[noteKey][]startedNote)

	for _, event := range track {
		absTicks += int64(event.Delta)
		absTime := float64(s.TimeAt(absTicks)) / 1e6
		msg := gomidi.Message(event.Message)

		var channel, key, velocity, program uint8
		var bpm float64
		var text string
		switch {
		case event.Message.GetMetaTempo(&bpm):
			tempos = append(tempos, model.TempoChange{Time: absTime, BPM: bpm})
		case event.Message.GetMetaTrackName(&text):
			if rec.Name == "" {
				rec.Name = text
			}
		case msg.GetProgramChange(&channel, &program):
			if !programSet {
				rec.Program = program
				programSet = true
			}
		case msg.GetNoteStart(&channel, &key, &velocity):
			k := noteKey{channel, key}
			pending[k] = append(pending[k], startedNote{onset: absTime, velocity: velocity})
			if channel == constants.DrumChannel {
				rec.IsDrum = true
			}
		case msg.GetNoteEnd(&channel, &key):
			k := noteKey{channel, key}
			started := pending[k]
			if len(started) == 0 {
				logger.GetLogger().Debugf("track %d: note off for unpressed key %d ch=%d", trackNo, key, channel)
				continue
			}
			pending[k] = started[1:]
			rec.Notes = append(rec.Notes, model.Note{
				Pitch:    key,
				Onset:    started[0].onset,
				Offset:   absTime,
				Velocity: started[0].velocity,
			})
		}
	}

	trackEnd := float64(s.TimeAt(absTicks)) / 1e6
	hanging := make([]noteKey, 0, len(pending))
	for k := range pending {
		hanging = append(hanging, k)
	}
	sort.Slice(hanging, func(i, j int) bool {
		if hanging[i].channel != hanging[j].channel {
			return hanging[i].channel < hanging[j].channel
		}
		return hanging[i].key < hanging[j].key
	})
	for _, k := range hanging {
		for _, n := range pending[k] {
			logger.GetLogger().Warnf("track %d: missing note off for key %d ch=%d", trackNo, k.key, k.channel)
			rec.Notes = append(rec.Notes, model.Note{
				Pitch:    k.key,
				Onset:    n.onset,
				Offset:   util.Max(trackEnd, n.onset),
				Velocity: n.velocity,
			})
		}
	}

	sort.SliceStable(rec.Notes, func(i, j int) bool {
		if rec.Notes[i].Onset != rec.Notes[j].Onset {
			return rec.Notes[i].Onset < rec.Notes[j].Onset
		}
		return rec.Notes[i].Pitch < rec.Notes[j].Pitch
	})
	return rec, tempos
}

// normalizeTempos sorts by time, keeps the last of several changes at the
// same time and makes sure the timeline starts at 0.
func normalizeTempos(tempos []model.TempoChange) []model.TempoChange {
	sort.SliceStable(tempos, func(i, j int) bool {
		return tempos[i].Time < tempos[j].Time
	})

	var res []model.TempoChange
	for _, t := range tempos {
		if len(res) > 0 && res[len(res)-1].Time == t.Time {
			res[len(res)-1] = t
			continue
		}
		res = append(res, t)
	}

	if len(res) == 0 || res[0].Time > 0 {
		res = append([]model.TempoChange{{Time: 0, BPM: constants.DefaultBPM}}, res...)
	}
	return res
}
