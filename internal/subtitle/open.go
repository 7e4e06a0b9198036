package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open reads an uploaded .srt (or plain .txt in the same layout) file from
// disk and parses it.
func Open(path string) ([]Segment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".srt" && ext != ".txt" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	segments, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return segments, nil
}
