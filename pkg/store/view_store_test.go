package store

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisViewStoreIncrementAndCounts(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisViewStore(redis.Addr(), "")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := s.IncrementView(ctx, "book-1")
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if count != int64(i) {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}
	if _, err := s.IncrementView(ctx, "book-2"); err != nil {
		t.Fatalf("increment book-2: %v", err)
	}

	counts, err := s.ViewCounts(ctx)
	if err != nil {
		t.Fatalf("view counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 counters, got %d: %v", len(counts), counts)
	}
	if counts["book-1"] != 3 || counts["book-2"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRedisViewStoreEmpty(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisViewStore(redis.Addr(), "")

	counts, err := s.ViewCounts(context.Background())
	if err != nil {
		t.Fatalf("view counts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty counts, got %v", counts)
	}
}

func TestRedisViewStoreConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisViewStore(redis.Addr(), "")
	ctx := context.Background()

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if _, err := s.IncrementView(ctx, "book-hot"); err != nil {
				errs <- err
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent increment: %v", err)
	}

	counts, err := s.ViewCounts(ctx)
	if err != nil {
		t.Fatalf("view counts: %v", err)
	}
	if counts["book-hot"] != workers {
		t.Fatalf("expected %d views, got %d", workers, counts["book-hot"])
	}
}
