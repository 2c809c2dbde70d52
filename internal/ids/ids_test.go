package ids

import (
	"sync"
	"testing"
	"time"
)

func TestGeneratorUnique(t *testing.T) {
	gen, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	const n = 10000
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		id := gen.Next()
		if id <= 0 {
			t.Fatalf("id must be positive, got %d", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGeneratorUniqueConcurrent(t *testing.T) {
	gen, err := NewGenerator(0)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	const workers = 8
	const perWorker = 2000
	var wg sync.WaitGroup
	out := make(chan int64, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				out <- gen.Next()
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[int64]struct{}, workers*perWorker)
	for id := range out {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGeneratorClockMovedBackwards(t *testing.T) {
	gen, err := NewGenerator(0)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	// Walk a fake clock forward, step it back 50ms, then let it catch up.
	// Every ID issued along the way must stay unique.
	ms := int64(epoch + 1_000_000)
	gen.now = func() time.Time { return time.UnixMilli(ms) }

	seen := make(map[int64]struct{})
	issue := func(n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			id := gen.Next()
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate id %d at clock %d", id, ms)
			}
			seen[id] = struct{}{}
		}
	}

	issue(10)
	ms -= 50
	issue(10)
	for i := 0; i < 60; i++ {
		ms++
		issue(5)
	}
}

func TestGeneratorNodeRange(t *testing.T) {
	if _, err := NewGenerator(-1); err == nil {
		t.Fatalf("negative node must be rejected")
	}
	if _, err := NewGenerator(256); err == nil {
		t.Fatalf("node above 255 must be rejected")
	}
	if _, err := NewGenerator(255); err != nil {
		t.Fatalf("node 255 should be accepted: %v", err)
	}
}
