package editor

import (
	"strings"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

// UnmatchedMarker is appended by the recognizer to text it could not align
// with any verse.
const UnmatchedMarker = "(غير مطابق)"

type IssueKind string

const (
	IssueEmptyText      IssueKind = "empty_text"
	IssueInvertedTiming IssueKind = "inverted_timing"
	IssueOverlap        IssueKind = "overlap"
	IssueUnmatched      IssueKind = "unmatched"
)

// Issue is one reason a segment was flagged. A segment may have several.
type Issue struct {
	SegmentID int       `json:"segmentId"`
	Kind      IssueKind `json:"kind"`
	// for overlaps, the id of the other segment in the pair
	OtherID int `json:"otherId,omitempty"`
}

// Check inspects segments in the order given (callers pass id order) and
// reports every issue found. It is deterministic and does not modify input.
func Check(segments []subtitle.Segment) []Issue {
	var issues []Issue

	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			issues = append(issues, Issue{SegmentID: seg.ID, Kind: IssueEmptyText})
		}
		if seg.StartTime >= seg.EndTime {
			issues = append(issues, Issue{SegmentID: seg.ID, Kind: IssueInvertedTiming})
		}
		if strings.Contains(seg.Text, UnmatchedMarker) {
			issues = append(issues, Issue{SegmentID: seg.ID, Kind: IssueUnmatched})
		}

		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if prev.EndTime > seg.StartTime {
			issues = append(issues,
				Issue{SegmentID: prev.ID, Kind: IssueOverlap, OtherID: seg.ID},
				Issue{SegmentID: seg.ID, Kind: IssueOverlap, OtherID: prev.ID},
			)
		}
	}

	return issues
}

// Validate returns a copy of segments with HasError recomputed from Check.
// No other field is touched.
func Validate(segments []subtitle.Segment) []subtitle.Segment {
	flagged := make(map[int]bool)
	for _, issue := range Check(segments) {
		flagged[issue.SegmentID] = true
	}

	out := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		seg.HasError = flagged[seg.ID]
		out[i] = seg
	}
	return out
}
