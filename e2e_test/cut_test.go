package e2e_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/midibars/cmd"
	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/midi"
	"github.com/jsphweid/midibars/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// writeTempoChangeSong writes 5 bars at 120 bpm then 3 bars at 60 bpm, a
// bass note on every downbeat.
func writeTempoChangeSong(t *testing.T, dir string) string {
	t.Helper()
	const bar = 4 * constants.TicksPerQuarter

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("Bass"))
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.ProgramChange(0, 33))
	for i := 0; i < 8; i++ {
		if i == 5 {
			tr.Add(0, smf.MetaTempo(60))
		}
		tr.Add(0, gomidi.NoteOn(0, uint8(40+i), 90))
		tr.Add(bar, gomidi.NoteOff(0, uint8(40+i)))
	}
	tr.Close(0)

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(dir, "bass.mid")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = s.WriteTo(f)
	require.NoError(t, err)
	return path
}

func TestCutAcrossTempoChangeE2E(t *testing.T) {
	mediaDir := t.TempDir()
	path := writeTempoChangeSong(t, mediaDir)

	// 5 bars of 2s then 3 bars of 4s
	body := bytes.NewBufferString(`{"start_bar": 4, "end_bar": 7}`)
	req := httptest.NewRequest(http.MethodPost, "/files/bass.mid/cut", body)
	w := httptest.NewRecorder()
	cmd.NewRouter(mediaDir).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.CutResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.InDelta(t, 8, res.StartTime, 1e-6)
	assert.InDelta(t, 18, res.EndTime, 1e-6)

	out := filepath.Join(t.TempDir(), "cut.mid")
	var stdout bytes.Buffer
	require.NoError(t, cmd.ExecuteArgs([]string{"cut", path, "--start", "4", "--end", "7", "-o", out}, &stdout))

	f, err := midi.Load(out)
	require.NoError(t, err)
	require.Len(t, f.Tracks, 1)
	assert.Equal(t, "Bass", f.Tracks[0].Name)
	assert.Equal(t, uint8(33), f.Tracks[0].Program)

	// the note ending on bar 4 is kept with a negative onset, written from 0
	got := f.Tracks[0].Notes
	require.Len(t, res.Notes, 4)
	assert.InDelta(t, -2, res.Notes[0].Onset, 1e-6)
	require.Len(t, got, len(res.Notes))
	for i, n := range res.Notes {
		assert.Equal(t, n.Pitch, got[i].Pitch)
		assert.InDelta(t, math.Max(n.Onset, 0), got[i].Onset, 1e-6)
		assert.InDelta(t, n.Offset, got[i].Offset, 1e-6)
	}
}
