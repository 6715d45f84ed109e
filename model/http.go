package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type TrackSummary struct {
	Index    int    `json:"index"`
	Program  uint8  `json:"program"`
	Name     string `json:"name"`
	IsDrum   bool   `json:"is_drum"`
	NumNotes int    `json:"num_notes"`
}

type SegmentSummary struct {
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	BPM            float64 `json:"bpm"`
	SecondsPerBar  float64 `json:"seconds_per_bar"`
	Bars           float64 `json:"bars"`
	CumulativeBars float64 `json:"cumulative_bars"`
}

type BarsResponse struct {
	Numerator    int              `json:"numerator"`
	Fixed        bool             `json:"fixed"`
	Duration     float64          `json:"duration"`
	TotalBars    float64          `json:"total_bars"`
	Segments     []SegmentSummary `json:"segments"`
	BarDurations []float64        `json:"bar_durations"`
}

// CutRequestBody selects a track by name, then program, then index.
type CutRequestBody struct {
	Name      *string  `json:"name"`
	Program   *uint8   `json:"program"`
	Index     *int     `json:"index"`
	StartBar  int      `json:"start_bar"`
	EndBar    int      `json:"end_bar"`
	Numerator int      `json:"numerator"`
	BPM       *float64 `json:"bpm"`
}

type CutResponse struct {
	Track     TrackSummary `json:"track"`
	StartTime float64      `json:"start_time"`
	EndTime   float64      `json:"end_time"`
	Notes     Notes        `json:"notes"`
}
