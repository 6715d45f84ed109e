package model

// TempoChange marks the time (seconds) from which BPM applies.
type TempoChange struct {
	Time float64 `json:"time"`
	BPM  float64 `json:"bpm"`
}
