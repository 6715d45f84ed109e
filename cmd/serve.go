package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/midibars/catalog"
	"github.com/jsphweid/midibars/constants"
	"github.com/jsphweid/midibars/cutter"
	"github.com/jsphweid/midibars/logger"
	"github.com/jsphweid/midibars/midi"
	"github.com/jsphweid/midibars/model"
	"github.com/jsphweid/midibars/tempo"
	"github.com/jsphweid/midibars/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errBadRequest = errors.New("bad request")

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", constants.DefaultAddr, "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the MIDI files in MEDIA_PATH over HTTP",
	Long:  `Serves track listings, bar counts and bar cuts of the MIDI files in MEDIA_PATH.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaDir, err := constants.GetMediaDir()
		if err != nil {
			return err
		}
		logger.GetLogger().Infof("serving %s on %s", mediaDir, addr)
		return http.ListenAndServe(addr, NewRouter(mediaDir))
	},
}

type server struct {
	mediaDir string
}

// NewRouter serves the MIDI files found under mediaDir.
func NewRouter(mediaDir string) http.Handler {
	s := &server{mediaDir: mediaDir}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(logRequests)
	router.HandleFunc("/files", s.handleFiles).Methods("GET")
	router.HandleFunc("/files/{name:.+}/tracks", s.handleTracks).Methods("GET")
	router.HandleFunc("/files/{name:.+}/bars", s.handleBars).Methods("GET")
	router.HandleFunc("/files/{name:.+}/cut", s.handleCut).Methods("POST")
	return cors.Default().Handler(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.GetLogger().WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"elapsed": time.Since(start),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetLogger().Errorf("Could not encode response: %v", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, catalog.ErrTrackNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, midi.ErrNotMidiPath),
		errors.Is(err, tempo.ErrBarOutOfRange),
		errors.Is(err, tempo.ErrInvalidTimeSignature),
		errors.Is(err, tempo.ErrInvalidTempo),
		errors.Is(err, tempo.ErrTooManyBars):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.GetLogger().Error(err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// resolve keeps name inside the media dir.
func (s *server) resolve(name string) string {
	return filepath.Join(s.mediaDir, filepath.Clean("/"+name))
}

func (s *server) songFor(r *http.Request) (*song, error) {
	return loadSong(s.resolve(mux.Vars(r)["name"]))
}

func (s *server) handleFiles(w http.ResponseWriter, r *http.Request) {
	paths, err := util.GatherAllMidiPaths(s.mediaDir, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		files = append(files, filepath.ToSlash(p))
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *server) handleTracks(w http.ResponseWriter, r *http.Request) {
	sng, err := s.songFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]model.TrackSummary, 0, sng.catalog.Len())
	for _, t := range sng.catalog.Tracks() {
		res = append(res, t.Summary())
	}
	writeJSON(w, http.StatusOK, res)
}

func queryNumber(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s: %q is not a number", key, raw)
	}
	return v, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s: %q is not an integer", key, raw)
	}
	return v, nil
}

func (s *server) handleBars(w http.ResponseWriter, r *http.Request) {
	numerator, err := queryInt(r, "numerator", constants.DefaultNumerator)
	if err != nil {
		writeError(w, err)
		return
	}
	bpm, err := queryNumber(r, "bpm", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	sng, err := s.songFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := sng.tempoMap(numerator, bpm)
	if err != nil {
		writeError(w, err)
		return
	}

	res := model.BarsResponse{
		Numerator:    m.Numerator(),
		Fixed:        m.Fixed(),
		Duration:     m.Duration(),
		TotalBars:    m.TotalBars(),
		BarDurations: m.BarDurations(),
	}
	for _, seg := range m.Segments() {
		res.Segments = append(res.Segments, model.SegmentSummary{
			Start:          seg.Start,
			End:            seg.End,
			BPM:            seg.BPM,
			SecondsPerBar:  seg.SecondsPerBar,
			Bars:           seg.Bars,
			CumulativeBars: seg.CumulativeBars,
		})
	}
	if res.BarDurations == nil {
		res.BarDurations = []float64{}
	}
	writeJSON(w, http.StatusOK, res)
}

func pickTrack(c *catalog.Catalog, body model.CutRequestBody) (catalog.Track, error) {
	switch {
	case body.Name != nil:
		return c.FindByName(*body.Name)
	case body.Program != nil:
		return c.FindByProgram(*body.Program)
	case body.Index != nil:
		return c.FindByIndex(*body.Index)
	default:
		return c.FindByIndex(0)
	}
}

func (s *server) handleCut(w http.ResponseWriter, r *http.Request) {
	var body model.CutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.Wrapf(errBadRequest, "Could not unmarshal request body: %v", err))
		return
	}
	if body.Numerator == 0 {
		body.Numerator = constants.DefaultNumerator
	}
	var bpm float64
	if body.BPM != nil {
		bpm = *body.BPM
	}

	sng, err := s.songFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := sng.tempoMap(body.Numerator, bpm)
	if err != nil {
		writeError(w, err)
		return
	}
	track, err := pickTrack(sng.catalog, body)
	if err != nil {
		writeError(w, err)
		return
	}
	win, err := cutter.CutBarWindow(track.Notes, m, body.StartBar, body.EndBar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CutResponse{
		Track:     track.Summary(),
		StartTime: win.Start,
		EndTime:   win.End,
		Notes:     win.Notes.Notes(),
	})
}
