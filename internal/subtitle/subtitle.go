package subtitle

import (
	"strings"
	"time"
)

// one timed cue of a loaded document
type Segment struct {
	ID        int           `json:"id"`
	StartTime time.Duration `json:"startTime"`
	EndTime   time.Duration `json:"endTime"`
	Text      string        `json:"text"`
	// 0 when the cue is not tagged to a verse
	VerseNumber int  `json:"verseNumber,omitempty"`
	HasError    bool `json:"hasError"`
}

// Duration returns the time span the segment covers.
func (s Segment) Duration() time.Duration {
	return s.EndTime - s.StartTime
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// renders segments in a concrete subtitle format
type Writer interface {
	Render(segments []Segment) string
	Write(segments []Segment, path string) error
}

// ParseFormat maps a user supplied name ("srt", "VTT", "ssa") to a Format.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt", "":
		return FormatSRT, true
	case "vtt":
		return FormatVTT, true
	case "ass", "ssa":
		return FormatASS, true
	default:
		return "", false
	}
}
