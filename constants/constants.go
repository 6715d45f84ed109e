package constants

import (
	"errors"
	"os"
	"strings"
)

const (
	DefaultVelocity  = 100
	DefaultNumerator = 4
	DefaultBPM       = 120.0
	TicksPerQuarter  = 960

	// 0-based; channel 10 in 1-based numbering
	DrumChannel = 9
)

const DefaultAddr = ":8080"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() (string, error) {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path, nil
	}
	return "", errors.New("MEDIA_PATH environment variable is not set")
}

func GetLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		return strings.ToLower(level)
	}
	return "info"
}
