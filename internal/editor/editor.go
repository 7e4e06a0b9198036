package editor

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mgpai22/tilawa/internal/store"
	"github.com/mgpai22/tilawa/internal/subtitle"
)

// Editor tracks the segment selection for one document and applies merge and
// validation passes to its store. The only state it owns is the selection.
type Editor struct {
	store *store.Store

	mu       sync.Mutex
	selected map[int]struct{}
}

func New(s *store.Store) *Editor {
	return &Editor{
		store:    s,
		selected: make(map[int]struct{}),
	}
}

// Toggle adds id to the selection, or removes it if already present. It
// reports whether id is selected afterwards.
func (e *Editor) Toggle(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return false
	}
	e.selected[id] = struct{}{}
	return true
}

func (e *Editor) IsSelected(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.selected[id]
	return ok
}

// Selected returns the selected ids in ascending order.
func (e *Editor) Selected() []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]int, 0, len(e.selected))
	for id := range e.selected {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = make(map[int]struct{})
}

// Merge merges the current selection. On success the selection is cleared.
// A stale selection (ErrSegmentNotFound) is also cleared; too small a
// selection is left for the user to extend.
func (e *Editor) Merge() (subtitle.Segment, error) {
	return e.MergeIDs(e.Selected())
}

// MergeIDs merges an explicit id set. Ids are re-checked against the store
// inside the commit, so a concurrent merge that consumed one of them yields
// ErrSegmentNotFound rather than a partial merge.
func (e *Editor) MergeIDs(ids []int) (subtitle.Segment, error) {
	var merged subtitle.Segment
	err := e.store.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
		next, m, err := MergeSegments(current, ids)
		if err != nil {
			return nil, err
		}
		merged = m
		return next, nil
	})

	switch {
	case err == nil, errors.Is(err, ErrSegmentNotFound):
		e.ClearSelection()
	}
	if err != nil {
		return subtitle.Segment{}, err
	}
	return merged, nil
}

// AutoMerge applies AutoMerge to the store and returns the merged segments.
// The selection is cleared when anything was merged.
func (e *Editor) AutoMerge(
	minWords int,
	maxGap time.Duration,
) ([]subtitle.Segment, error) {
	var merged []subtitle.Segment
	err := e.store.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
		next, m, err := AutoMerge(current, minWords, maxGap)
		if err != nil {
			return nil, err
		}
		merged = m
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	if len(merged) > 0 {
		e.ClearSelection()
	}
	return merged, nil
}

// Validate recomputes HasError for every segment and returns the issues
// behind the flags.
func (e *Editor) Validate() ([]Issue, error) {
	var issues []Issue
	err := e.store.Update(func(current []subtitle.Segment) ([]subtitle.Segment, error) {
		issues = Check(current)
		return Validate(current), nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
