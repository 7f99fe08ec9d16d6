package blocklist

import (
	"sync"
	"testing"
)

func TestBlockAndIsBlocked(t *testing.T) {
	t.Parallel()

	b := New()
	if b.IsBlocked("a@example.com") {
		t.Fatal("fresh blocklist should not block anyone")
	}

	if !b.Block("a@example.com") {
		t.Fatal("first Block should report the transition")
	}
	if !b.IsBlocked("a@example.com") {
		t.Fatal("sender should be blocked")
	}
	if b.Block("a@example.com") {
		t.Fatal("second Block should be a no-op")
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}

func TestBlockCaseInsensitive(t *testing.T) {
	t.Parallel()

	b := New()
	b.Block("Sender@Example.COM")

	if !b.IsBlocked("sender@example.com") {
		t.Fatal("lookup should be case-insensitive")
	}
	if !b.IsBlocked("  SENDER@EXAMPLE.COM  ") {
		t.Fatal("lookup should trim whitespace")
	}
	if b.Block("SENDER@example.com") {
		t.Fatal("case variant should not count as a new block")
	}
}

func TestBlockConcurrent(t *testing.T) {
	t.Parallel()

	b := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	transitions := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Block("shared@example.com") {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
			_ = b.IsBlocked("shared@example.com")
		}()
	}
	wg.Wait()

	if transitions != 1 {
		t.Fatalf("transitions = %d, want exactly 1", transitions)
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}
