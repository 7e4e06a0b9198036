package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleSegments() []Segment {
	return []Segment{
		{ID: 1, StartTime: 0, EndTime: 3 * time.Second, Text: "Alpha", VerseNumber: 1},
		{ID: 3, StartTime: 3*time.Second + 1*time.Millisecond, EndTime: 6 * time.Second, Text: "Beta\nGamma"},
	}
}

func TestSRTWriterMatchesExport(t *testing.T) {
	w, err := NewWriter(FormatSRT)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if got, want := w.Render(sampleSegments()), Export(sampleSegments()); got != want {
		t.Errorf("SRT render differs from Export:\n%q\n%q", got, want)
	}
}

func TestVTTWriter(t *testing.T) {
	w, err := NewWriter(FormatVTT)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	out := w.Render(sampleSegments())

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Errorf("missing WEBVTT header: %q", out)
	}
	if !strings.Contains(out, "00:00:03.001 --> 00:00:06.000\nBeta\nGamma\n") {
		t.Errorf("unexpected VTT cue layout: %q", out)
	}
}

func TestASSWriter(t *testing.T) {
	w, err := NewWriter(FormatASS)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	out := w.Render(sampleSegments())

	if !strings.Contains(out, "Dialogue: 0,0:00:00.00,0:00:03.00,Default,verse-1,0,0,0,,Alpha\n") {
		t.Errorf("verse-tagged dialogue line missing: %s", out)
	}
	if !strings.Contains(out, "Dialogue: 0,0:00:03.00,0:00:06.00,Default,,0,0,0,,Beta\\NGamma\n") {
		t.Errorf("multi-line dialogue not escaped: %s", out)
	}
}

func TestWriterCreatesDirectories(t *testing.T) {
	w, err := NewWriter(FormatSRT)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "out.srt")
	if err := w.Write(sampleSegments(), path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != Export(sampleSegments()) {
		t.Errorf("written file differs from Export output")
	}
}

func TestNewWriterUnsupported(t *testing.T) {
	if _, err := NewWriter(Format("sbv")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input  string
		want   Format
		wantOK bool
	}{
		{"srt", FormatSRT, true},
		{"", FormatSRT, true},
		{"VTT", FormatVTT, true},
		{" ssa ", FormatASS, true},
		{"docx", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFormat(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatExtensions(t *testing.T) {
	if GetFormatFromExtension("a/b/FILE.ASS") != FormatASS {
		t.Error("expected .ASS to map to FormatASS")
	}
	if GetFormatFromExtension("noext") != FormatSRT {
		t.Error("expected default FormatSRT")
	}
	if GetExtensionForFormat(FormatVTT) != ".vtt" {
		t.Error("expected .vtt for FormatVTT")
	}
}
