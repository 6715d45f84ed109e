package model

// TrackRecord is one instrument as read from a MIDI file, before it is
// turned into a catalog track.
type TrackRecord struct {
	Index   int
	Program uint8
	Name    string
	IsDrum  bool
	Notes   Notes
}
