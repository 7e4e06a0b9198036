package subtitle

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:03,000
Alpha

2
00:00:03,001 --> 00:00:06,000
Beta

`

func TestParseSample(t *testing.T) {
	segments, err := Parse(sampleSRT)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	want := []Segment{
		{ID: 1, StartTime: 0, EndTime: 3 * time.Second, Text: "Alpha"},
		{
			ID:        2,
			StartTime: 3*time.Second + time.Millisecond,
			EndTime:   6 * time.Second,
			Text:      "Beta",
		},
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, segments[i], want[i])
		}
	}
}

func TestExportSampleIsByteIdentical(t *testing.T) {
	segments, err := Parse(sampleSRT)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := Export(segments); got != sampleSRT {
		t.Errorf("round trip mismatch:\ngot  %q\nwant %q", got, sampleSRT)
	}
}

func TestExportEmpty(t *testing.T) {
	if got := Export(nil); got != "" {
		t.Errorf("Export(nil) = %q, want empty string", got)
	}
	if got := Export([]Segment{}); got != "" {
		t.Errorf("Export([]) = %q, want empty string", got)
	}
}

func TestExportUsesPositionNotID(t *testing.T) {
	segments := []Segment{
		{ID: 2, StartTime: time.Second, EndTime: 2 * time.Second, Text: "first"},
		{ID: 7, StartTime: 3 * time.Second, EndTime: 4 * time.Second, Text: "second"},
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\nfirst\n\n" +
		"2\n00:00:03,000 --> 00:00:04,000\nsecond\n\n"
	if got := Export(segments); got != want {
		t.Errorf("Export() = %q, want %q", got, want)
	}
}

func TestRoundTripPreservesTextAndTimes(t *testing.T) {
	segments := []Segment{
		{
			ID:          4,
			StartTime:   0,
			EndTime:     1500 * time.Millisecond,
			Text:        "بِسۡمِ ٱللَّهِ ٱلرَّحۡمَٰنِ ٱلرَّحِيمِ",
			VerseNumber: 1,
		},
		{
			ID:        9,
			StartTime: 1500 * time.Millisecond,
			EndTime:   4*time.Second + 999*time.Millisecond,
			Text:      "two\nlines",
		},
		{
			ID:        12,
			StartTime: 125*time.Hour + 59*time.Minute + 59*time.Second,
			EndTime:   126 * time.Hour,
			Text:      "  leading spaces kept",
		},
	}

	parsed, err := Parse(Export(segments))
	if err != nil {
		t.Fatalf("Parse(Export()) failed: %v", err)
	}
	if len(parsed) != len(segments) {
		t.Fatalf("expected %d segments, got %d", len(segments), len(parsed))
	}
	for i, seg := range segments {
		got := parsed[i]
		if got.ID != i+1 {
			t.Errorf("segment %d: expected fresh id %d, got %d", i, i+1, got.ID)
		}
		if got.StartTime != seg.StartTime || got.EndTime != seg.EndTime {
			t.Errorf(
				"segment %d: times %v-%v, want %v-%v",
				i, got.StartTime, got.EndTime, seg.StartTime, seg.EndTime,
			)
		}
		if got.Text != seg.Text {
			t.Errorf("segment %d: text %q, want %q", i, got.Text, seg.Text)
		}
	}
}

// CheckText accepts exactly the texts that survive Export then Parse.
func TestCheckTextMatchesRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{"single line", "الحمد لله", true},
		{"two lines", "first\nsecond", true},
		{"indented line", "first\n  second", true},
		{"blank line inside", "first\n\nsecond", false},
		{"whitespace line inside", "first\n \nsecond", false},
		{"whitespace only", "  ", false},
		{"empty", "", false},
		{"trailing newline", "trailing\n", false},
		{"leading newline", "\nleading", false},
		{"carriage return", "first\r\nsecond", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckText(tt.text)
			if (err == nil) != tt.wantOK {
				t.Fatalf("CheckText(%q) = %v, wantOK %v", tt.text, err, tt.wantOK)
			}

			parsed, perr := Parse(Export([]Segment{{ID: 1, EndTime: time.Second, Text: tt.text}}))
			survived := perr == nil && len(parsed) == 1 && parsed[0].Text == tt.text
			if survived != tt.wantOK {
				t.Errorf("round trip of %q: survived=%v (err %v), want %v", tt.text, survived, perr, tt.wantOK)
			}
		})
	}
}

func TestParseTolerantInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{"empty", "", 0},
		{"whitespace only", " \n\n\t\n", 0},
		{"crlf line endings", "1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n", 1},
		{"byte order mark", "\ufeff1\n00:00:01,000 --> 00:00:02,000\nHi\n", 1},
		{"no trailing newline", "1\n00:00:01,000 --> 00:00:02,000\nHi", 1},
		{
			"extra blank lines between blocks",
			"1\n00:00:01,000 --> 00:00:02,000\nA\n\n\n\n2\n00:00:02,000 --> 00:00:03,000\nB\n",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Errorf("got %d segments, want %d", len(segments), tt.wantCount)
			}
		})
	}
}

func TestParseMalformedBlocks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantBlock int
	}{
		{
			name:      "missing text line",
			input:     "1\n00:00:01,000 --> 00:00:02,000\n",
			wantBlock: 1,
		},
		{
			name:      "non numeric index",
			input:     "one\n00:00:01,000 --> 00:00:02,000\nText\n",
			wantBlock: 1,
		},
		{
			name:      "dot millisecond separator",
			input:     "1\n00:00:01.000 --> 00:00:02.000\nText\n",
			wantBlock: 1,
		},
		{
			name:      "wrong arrow spacing",
			input:     "1\n00:00:01,000-->00:00:02,000\nText\n",
			wantBlock: 1,
		},
		{
			name:      "minutes out of range",
			input:     "1\n00:61:01,000 --> 00:62:02,000\nText\n",
			wantBlock: 1,
		},
		{
			name:      "hours overflow",
			input:     "1\n9999999:00:00,000 --> 9999999:00:01,000\nText\n",
			wantBlock: 1,
		},
		{
			name: "second block broken",
			input: "1\n00:00:01,000 --> 00:00:02,000\nOK\n\n" +
				"2\n00:00:02,000 --> 00:00:03\nBroken\n",
			wantBlock: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %d segments", len(segments))
			}
			if segments != nil {
				t.Errorf("expected no partial result, got %d segments", len(segments))
			}
			if !errors.Is(err, ErrMalformedBlock) {
				t.Errorf("expected ErrMalformedBlock, got %v", err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Block != tt.wantBlock {
				t.Errorf("block: got %d, want %d", perr.Block, tt.wantBlock)
			}
		})
	}
}

func TestParseErrorLineNumber(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\nOK\n\n2\nbad timing\nText\n"
	_, err := Parse(input)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Line != 6 {
		t.Errorf("line: got %d, want 6", perr.Line)
	}
	if !strings.Contains(err.Error(), "bad timing") {
		t.Errorf("error should quote the timing line, got %q", err.Error())
	}
}
