package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

func seg(id int, start, end time.Duration, text string) subtitle.Segment {
	return subtitle.Segment{ID: id, StartTime: start, EndTime: end, Text: text}
}

func ids(segments []subtitle.Segment) []int {
	out := make([]int, len(segments))
	for i, s := range segments {
		out[i] = s.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReplaceAllSortsByID(t *testing.T) {
	s := New()
	err := s.ReplaceAll([]subtitle.Segment{
		seg(3, 6*time.Second, 9*time.Second, "c"),
		seg(1, 0, 3*time.Second, "a"),
		seg(2, 3*time.Second, 6*time.Second, "b"),
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if got := ids(s.Segments()); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("expected ids [1 2 3], got %v", got)
	}
	if s.Len() != 3 {
		t.Errorf("expected Len 3, got %d", s.Len())
	}
}

func TestReplaceAllRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		segments []subtitle.Segment
		wantID   int
	}{
		{
			name: "duplicate id",
			segments: []subtitle.Segment{
				seg(1, 0, time.Second, "a"),
				seg(1, time.Second, 2*time.Second, "b"),
			},
			wantID: 1,
		},
		{
			name: "inverted timestamps",
			segments: []subtitle.Segment{
				seg(1, 0, time.Second, "a"),
				seg(2, 5*time.Second, 4*time.Second, "b"),
			},
			wantID: 2,
		},
		{
			name: "whitespace-only text",
			segments: []subtitle.Segment{
				seg(3, 0, time.Second, "  "),
			},
			wantID: 3,
		},
		{
			name: "blank line inside text",
			segments: []subtitle.Segment{
				seg(1, 0, time.Second, "a"),
				seg(4, time.Second, 2*time.Second, "first\n\nsecond"),
			},
			wantID: 4,
		},
		{
			name: "trailing newline",
			segments: []subtitle.Segment{
				seg(5, 0, time.Second, "trailing\n"),
			},
			wantID: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			original := []subtitle.Segment{seg(9, 0, time.Second, "keep")}
			if err := s.ReplaceAll(original); err != nil {
				t.Fatalf("seed ReplaceAll failed: %v", err)
			}

			err := s.ReplaceAll(tt.segments)
			if !errors.Is(err, ErrInvalidSegment) {
				t.Fatalf("expected ErrInvalidSegment, got %v", err)
			}
			var invalid *InvalidSegmentError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidSegmentError, got %T", err)
			}
			if invalid.ID != tt.wantID {
				t.Errorf("expected offending id %d, got %d", tt.wantID, invalid.ID)
			}
			if got := ids(s.Segments()); !equalInts(got, []int{9}) {
				t.Errorf("store changed after rejected replace: %v", got)
			}
		})
	}
}

func TestReplaceAllAcceptsZeroLengthSegment(t *testing.T) {
	s := New()
	if err := s.ReplaceAll([]subtitle.Segment{seg(1, time.Second, time.Second, "x")}); err != nil {
		t.Errorf("equal start and end should be accepted, got %v", err)
	}
}

func TestGet(t *testing.T) {
	s := New()
	if err := s.ReplaceAll([]subtitle.Segment{
		seg(2, 0, time.Second, "two"),
		seg(5, time.Second, 2*time.Second, "five"),
	}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := s.Get(5)
	if err != nil {
		t.Fatalf("Get(5) failed: %v", err)
	}
	if got.Text != "five" {
		t.Errorf("expected text five, got %q", got.Text)
	}

	if _, err := s.Get(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestSegmentsReturnsCopy(t *testing.T) {
	s := New()
	if err := s.ReplaceAll([]subtitle.Segment{seg(1, 0, time.Second, "a")}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	out := s.Segments()
	out[0].Text = "mutated"

	got, _ := s.Get(1)
	if got.Text != "a" {
		t.Errorf("store was mutated through Segments(): %q", got.Text)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := New()
	if err := s.ReplaceAll([]subtitle.Segment{seg(1, 0, time.Second, "a")}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
		return append(current, current[0]), nil
	})
	if !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("expected store unchanged, got %d segments", s.Len())
	}
}

func TestUpdateIsSerialized(t *testing.T) {
	s := New()
	if err := s.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = s.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
				return append(current, seg(id, 0, time.Second, "x")), nil
			})
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 segments after concurrent updates, got %d", s.Len())
	}
}
