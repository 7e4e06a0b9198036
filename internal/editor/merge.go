package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

var (
	ErrInsufficientSelection = errors.New("at least two segments must be selected")
	ErrSegmentNotFound       = errors.New("selected segment not found")
)

type MergeReason string

const (
	ReasonInsufficientSelection MergeReason = "insufficient_selection"
	ReasonSegmentNotFound       MergeReason = "segment_not_found"
)

// MergeError is returned when a merge is refused. The document is left as it was.
type MergeError struct {
	Reason MergeReason
	// offending id for ReasonSegmentNotFound, selection size otherwise
	ID       int
	Selected int
}

func (e *MergeError) Error() string {
	switch e.Reason {
	case ReasonSegmentNotFound:
		return fmt.Sprintf("merge failed: segment %d not found", e.ID)
	default:
		return fmt.Sprintf(
			"merge failed: %d segment(s) selected, need at least 2",
			e.Selected,
		)
	}
}

func (e *MergeError) Unwrap() error {
	if e.Reason == ReasonSegmentNotFound {
		return ErrSegmentNotFound
	}
	return ErrInsufficientSelection
}

// MergeSegments combines the segments with the given ids into one, returning
// the new sequence (ascending id) and the merged segment. The merged segment
// keeps the lowest id, spans first start to last end in id order and joins
// the texts with a single space. segments is not modified.
func MergeSegments(
	segments []subtitle.Segment,
	ids []int,
) ([]subtitle.Segment, subtitle.Segment, error) {
	selected := uniqueSorted(ids)
	if len(selected) < 2 {
		return nil, subtitle.Segment{}, &MergeError{
			Reason:   ReasonInsufficientSelection,
			Selected: len(selected),
		}
	}

	byID := make(map[int]subtitle.Segment, len(segments))
	for _, seg := range segments {
		byID[seg.ID] = seg
	}

	picked := make([]subtitle.Segment, 0, len(selected))
	for _, id := range selected {
		seg, ok := byID[id]
		if !ok {
			return nil, subtitle.Segment{}, &MergeError{
				Reason:   ReasonSegmentNotFound,
				ID:       id,
				Selected: len(selected),
			}
		}
		picked = append(picked, seg)
	}

	first, last := picked[0], picked[len(picked)-1]
	texts := make([]string, len(picked))
	for i, seg := range picked {
		texts[i] = seg.Text
	}

	merged := subtitle.Segment{
		ID:          first.ID,
		StartTime:   first.StartTime,
		EndTime:     last.EndTime,
		Text:        strings.Join(texts, " "),
		VerseNumber: first.VerseNumber,
		HasError:    false,
	}

	consumed := make(map[int]bool, len(selected))
	for _, id := range selected {
		consumed[id] = true
	}

	out := make([]subtitle.Segment, 0, len(segments)-len(selected)+1)
	for _, seg := range segments {
		if !consumed[seg.ID] {
			out = append(out, seg)
		}
	}
	out = append(out, merged)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, merged, nil
}

func uniqueSorted(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
