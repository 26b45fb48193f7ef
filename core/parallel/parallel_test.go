package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/cytodiag/wdbc/pkg/errors"
)

func TestChunkedCoversAllItems(t *testing.T) {
	const n = 1000
	var covered [n]int32
	Chunked(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&covered[i], 1)
		}
	})
	for i, c := range covered {
		if c != 1 {
			t.Fatalf("item %d visited %d times", i, c)
		}
	}
}

func TestChunkedEmpty(t *testing.T) {
	called := false
	Chunked(0, func(start, end int) { called = true })
	if called {
		t.Error("fn must not be called for zero items")
	}
}

func TestForEachCollectsErrors(t *testing.T) {
	errs := ForEach(4, func(i int) error {
		if i == 2 {
			return errors.New("boom")
		}
		return nil
	})
	if len(errs) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(errs))
	}
	for i, err := range errs {
		if i == 2 && err == nil {
			t.Error("index 2 should carry an error")
		}
		if i != 2 && err != nil {
			t.Errorf("index %d unexpectedly failed: %v", i, err)
		}
	}
}
