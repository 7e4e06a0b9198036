package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/tilawa/internal/subtitle"
)

var (
	ErrNotFound       = errors.New("segment not found")
	ErrInvalidSegment = errors.New("invalid segment")
)

// InvalidSegmentError describes why a sequence was refused by the store.
type InvalidSegmentError struct {
	ID     int
	Reason string
}

func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("%s %d: %s", ErrInvalidSegment.Error(), e.ID, e.Reason)
}

func (e *InvalidSegmentError) Unwrap() error {
	return ErrInvalidSegment
}

// Store holds one document's segments in ascending id order. Every mutation
// replaces the whole sequence, so readers never see a half-applied change.
type Store struct {
	mu       sync.RWMutex
	segments []subtitle.Segment
}

func New() *Store {
	return &Store{}
}

// ReplaceAll swaps in a copy of segments sorted by id. On error the previous
// sequence is kept.
func (s *Store) ReplaceAll(segments []subtitle.Segment) error {
	next, err := normalize(segments)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.segments = next
	s.mu.Unlock()
	return nil
}

// Update runs fn against the current sequence and commits its result under a
// single write lock. fn must not retain or mutate its argument.
func (s *Store) Update(
	fn func(current []subtitle.Segment) ([]subtitle.Segment, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := fn(cloneSegments(s.segments))
	if err != nil {
		return err
	}

	next, err := normalize(updated)
	if err != nil {
		return err
	}
	s.segments = next
	return nil
}

func (s *Store) Get(id int) (subtitle.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].ID >= id
	})
	if i < len(s.segments) && s.segments[i].ID == id {
		return s.segments[i], nil
	}
	return subtitle.Segment{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Segments returns a copy of the sequence in id order.
func (s *Store) Segments() []subtitle.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSegments(s.segments)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

func normalize(segments []subtitle.Segment) ([]subtitle.Segment, error) {
	next := cloneSegments(segments)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].ID < next[j].ID
	})

	for i, seg := range next {
		if i > 0 && next[i-1].ID == seg.ID {
			return nil, &InvalidSegmentError{ID: seg.ID, Reason: "duplicate id"}
		}
		if err := subtitle.CheckText(seg.Text); err != nil {
			return nil, &InvalidSegmentError{ID: seg.ID, Reason: err.Error()}
		}
		if seg.StartTime > seg.EndTime {
			return nil, &InvalidSegmentError{
				ID: seg.ID,
				Reason: fmt.Sprintf(
					"start %s is after end %s",
					subtitle.FormatTimestamp(seg.StartTime),
					subtitle.FormatTimestamp(seg.EndTime),
				),
			}
		}
	}

	return next, nil
}

func cloneSegments(segments []subtitle.Segment) []subtitle.Segment {
	out := make([]subtitle.Segment, len(segments))
	copy(out, segments)
	return out
}
