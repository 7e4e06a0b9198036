package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func makeItems(n int) []TranslationItem {
	items := make([]TranslationItem, n)
	for i := range items {
		items[i] = TranslationItem{Index: i + 1, Text: "t"}
	}
	return items
}

// echoes each item upper-cased and records batch sizes
type recordingBatcher struct {
	mu    sync.Mutex
	sizes []int
	calls atomic.Int32
	fail  func(batch []TranslationItem) error
}

func (r *recordingBatcher) translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.sizes = append(r.sizes, len(items))
	r.mu.Unlock()

	if r.fail != nil {
		if err := r.fail(items); err != nil {
			return nil, err
		}
	}

	out := make([]TranslationResult, len(items))
	for i, it := range items {
		out[i] = TranslationResult{Index: it.Index, Text: strings.ToUpper(it.Text)}
	}
	return out, nil
}

func TestSplitBatches(t *testing.T) {
	batches := splitBatches(makeItems(7), 3)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[2]) != 1 || batches[2][0].Index != 7 {
		t.Errorf("unexpected last batch %+v", batches[2])
	}
}

func TestEffectiveBatchSize(t *testing.T) {
	if got := effectiveBatchSize(Options{}); got != DefaultBatchSize {
		t.Errorf("expected default %d, got %d", DefaultBatchSize, got)
	}
	if got := effectiveBatchSize(Options{BatchSize: 5}); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestTranslateSequential(t *testing.T) {
	r := &recordingBatcher{}
	results, err := translateSequential(context.Background(), makeItems(5), 2, r.translate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if r.calls.Load() != 3 {
		t.Errorf("expected 3 batch calls, got %d", r.calls.Load())
	}
	for i, res := range results {
		if res.Index != i+1 || res.Text != "T" {
			t.Errorf("result %d = %+v", i, res)
		}
	}
}

func TestTranslateSequentialEmpty(t *testing.T) {
	r := &recordingBatcher{}
	results, err := translateSequential(context.Background(), nil, 2, r.translate)
	if err != nil || len(results) != 0 || r.calls.Load() != 0 {
		t.Errorf("expected no work for empty input, got %v, %v, %d calls", results, err, r.calls.Load())
	}
}

func TestTranslateConcurrentOrdersResults(t *testing.T) {
	r := &recordingBatcher{}
	results, err := translateConcurrent(context.Background(), makeItems(23), 4, 3, r.translate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 23 {
		t.Fatalf("expected 23 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Index != i+1 {
			t.Fatalf("results not sorted: position %d has index %d", i, res.Index)
		}
	}
	if r.calls.Load() != 6 {
		t.Errorf("expected 6 batches, got %d", r.calls.Load())
	}
}

func TestTranslateConcurrentFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	r := &recordingBatcher{
		fail: func(batch []TranslationItem) error {
			if batch[0].Index == 5 {
				return boom
			}
			return nil
		},
	}

	_, err := translateConcurrent(context.Background(), makeItems(12), 2, 2, r.translate)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped batch error, got %v", err)
	}
	if !strings.Contains(err.Error(), "batch 2 failed") {
		t.Errorf("error should name the failing batch, got %q", err.Error())
	}
}

func TestTranslateConcurrentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recordingBatcher{}
	_, err := translateConcurrent(ctx, makeItems(10), 2, 2, r.translate)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
