package model

// Note is a single note event, times in seconds.
//
// Velocity 0 means the source had no velocity; writers substitute a default.
type Note struct {
	Pitch    uint8   `json:"pitch"`
	Onset    float64 `json:"onset"`
	Offset   float64 `json:"offset"`
	Velocity uint8   `json:"velocity,omitempty"`
}

type Notes = []Note
