package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedBlock is wrapped by every ParseError.
var ErrMalformedBlock = errors.New("malformed subtitle block")

const timingSeparator = " --> "

// ParseError reports the first block that does not follow the
// index / timing / text grammar. Block and Line are 1-based.
type ParseError struct {
	Block  int
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"%s %d (line %d): %s",
		ErrMalformedBlock.Error(),
		e.Block,
		e.Line,
		e.Reason,
	)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedBlock
}

type rawBlock struct {
	firstLine int
	lines     []string
}

// Parse reads exchange-format text into segments. Ids are assigned 1..N in
// file order; the numeric index written in the file is checked but not kept.
// The whole parse fails on the first malformed block.
func Parse(text string) ([]Segment, error) {
	blocks := splitBlocks(text)
	segments := make([]Segment, 0, len(blocks))

	for i, blk := range blocks {
		seg, err := parseBlock(blk)
		if err != nil {
			err.Block = i + 1
			return nil, err
		}
		seg.ID = i + 1
		segments = append(segments, seg)
	}

	return segments, nil
}

func splitBlocks(text string) []rawBlock {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var blocks []rawBlock
	var current *rawBlock

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}
		if current == nil {
			current = &rawBlock{firstLine: i + 1}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

func parseBlock(blk rawBlock) (Segment, *ParseError) {
	if len(blk.lines) < 3 {
		return Segment{}, &ParseError{
			Line: blk.firstLine,
			Reason: fmt.Sprintf(
				"expected index, timing and text lines, got %d line(s)",
				len(blk.lines),
			),
		}
	}

	indexLine := strings.TrimSpace(blk.lines[0])
	if n, err := strconv.Atoi(indexLine); err != nil || n < 0 {
		return Segment{}, &ParseError{
			Line:   blk.firstLine,
			Reason: fmt.Sprintf("invalid index line %q", indexLine),
		}
	}

	timingLine := strings.TrimSpace(blk.lines[1])
	start, end, err := parseTimingLine(timingLine)
	if err != nil {
		return Segment{}, &ParseError{
			Line:   blk.firstLine + 1,
			Reason: err.Error(),
		}
	}

	return Segment{
		StartTime: start,
		EndTime:   end,
		Text:      strings.Join(blk.lines[2:], "\n"),
	}, nil
}

func parseTimingLine(line string) (start, end time.Duration, err error) {
	parts := strings.Split(line, timingSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf(
			"timing line %q must be HH:MM:SS,mmm --> HH:MM:SS,mmm",
			line,
		)
	}
	if start, err = ParseTimestamp(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// CheckText reports why text cannot be written as a cue body and read back
// unchanged. Text must be non-empty and no line may be blank or carry a
// carriage return.
func CheckText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text is empty")
	}
	if strings.ContainsRune(text, '\r') {
		return errors.New("text contains a carriage return")
	}
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("text line %d is blank", i+1)
		}
	}
	return nil
}

// Export renders segments in their given order. The leading number of each
// block is the 1-based export position, not Segment.ID.
func Export(segments []Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		// index (1-based)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatTimestamp(seg.StartTime))
		sb.WriteString(timingSeparator)
		sb.WriteString(FormatTimestamp(seg.EndTime))
		sb.WriteByte('\n')

		// text
		sb.WriteString(seg.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
