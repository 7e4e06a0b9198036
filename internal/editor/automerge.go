package editor

import (
	"sort"
	"strings"
	"time"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

const (
	DefaultMinWords = 5
	DefaultMaxGap   = time.Second
)

// AutoMerge walks segments in id order and joins each one with the segments
// after it until the group holds at least minWords words. A group also
// closes when the next segment starts more than maxGap after the group ends.
// It returns the new sequence and the segments produced by merging; groups
// of one are left untouched. segments is not modified.
func AutoMerge(
	segments []subtitle.Segment,
	minWords int,
	maxGap time.Duration,
) ([]subtitle.Segment, []subtitle.Segment, error) {
	ordered := make([]subtitle.Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	var groups [][]int
	for i := 0; i < len(ordered); {
		group := []int{ordered[i].ID}
		words := wordCount(ordered[i].Text)
		end := ordered[i].EndTime

		j := i + 1
		for j < len(ordered) && words < minWords {
			next := ordered[j]
			if next.StartTime-end > maxGap {
				break
			}
			group = append(group, next.ID)
			words += wordCount(next.Text)
			end = next.EndTime
			j++
		}

		if len(group) > 1 {
			groups = append(groups, group)
		}
		i = j
	}

	result := ordered
	var merged []subtitle.Segment
	for _, group := range groups {
		next, m, err := MergeSegments(result, group)
		if err != nil {
			return nil, nil, err
		}
		result = next
		merged = append(merged, m)
	}

	return result, merged, nil
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
