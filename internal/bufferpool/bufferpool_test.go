package bufferpool

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestPool(t *testing.T, numFrames int, strategy Strategy) *BufferPool {
	t.Helper()
	dir := t.TempDir()
	pool, err := InitBufferPool(filepath.Join(dir, "test.db"), numFrames, strategy, nil)
	if err != nil {
		t.Fatalf("InitBufferPool: %v", err)
	}
	return pool
}

func mustPin(t *testing.T, pool *BufferPool, page PageID) *PageHandle {
	t.Helper()
	h, err := PinPage(pool, page)
	if err != nil {
		t.Fatalf("PinPage(%d): %v", page, err)
	}
	return h
}

// S1: hit after a dirty write-back-free round trip performs exactly one read.
func TestScenarioS1Hit(t *testing.T) {
	pool := newTestPool(t, 3, StrategyFIFO)

	h := mustPin(t, pool, 0)
	if err := MarkDirty(pool, h); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	if err := UnpinPage(pool, h); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	mustPin(t, pool, 0)
	if GetNumReadIO(pool) != 1 {
		t.Fatalf("reads = %d, want 1", GetNumReadIO(pool))
	}
	if GetNumWriteIO(pool) != 0 {
		t.Fatalf("writes = %d, want 0", GetNumWriteIO(pool))
	}
	contents := GetFrameContents(pool)
	if contents[0] != 0 {
		t.Fatalf("frame 0 holds %d, want page 0", contents[0])
	}
	dirty := GetDirtyFlags(pool)
	if !dirty[0] {
		t.Fatal("frame 0 should still be dirty")
	}
}

// S2: FIFO fill-and-evict evicts frame 0 (page 0) first once the pool saturates.
func TestScenarioS2FIFOFillAndEvict(t *testing.T) {
	pool := newTestPool(t, 3, StrategyFIFO)

	for p := PageID(0); p < 3; p++ {
		h := mustPin(t, pool, p)
		if err := UnpinPage(pool, h); err != nil {
			t.Fatalf("UnpinPage(%d): %v", p, err)
		}
	}

	mustPin(t, pool, 3)

	contents := GetFrameContents(pool)
	want := []PageID{3, 1, 2}
	for i, w := range want {
		if contents[i] != w {
			t.Fatalf("frame %d = %d, want %d (contents=%v)", i, contents[i], w, contents)
		}
	}
	if GetNumReadIO(pool) != 4 {
		t.Fatalf("reads = %d, want 4", GetNumReadIO(pool))
	}
}

// S3: LRU evicts the smallest-stamp unpinned frame, not the oldest pin.
func TestScenarioS3LRURecency(t *testing.T) {
	pool := newTestPool(t, 3, StrategyLRU)

	h0 := mustPin(t, pool, 0)
	h1 := mustPin(t, pool, 1)
	h2 := mustPin(t, pool, 2)
	for _, h := range []*PageHandle{h0, h1, h2} {
		if err := UnpinPage(pool, h); err != nil {
			t.Fatalf("UnpinPage: %v", err)
		}
	}

	h0b := mustPin(t, pool, 0)
	if err := UnpinPage(pool, h0b); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	mustPin(t, pool, 3)

	resident := map[PageID]bool{}
	for _, p := range GetFrameContents(pool) {
		resident[p] = true
	}
	want := map[PageID]bool{0: true, 2: true, 3: true}
	for p := range want {
		if !resident[p] {
			t.Fatalf("expected page %d resident, contents=%v", p, GetFrameContents(pool))
		}
	}
	if resident[1] {
		t.Fatalf("page 1 should have been evicted, contents=%v", GetFrameContents(pool))
	}
}

// S4: a dirty victim is written back exactly once before the new page loads.
func TestScenarioS4DirtyWriteBackOnEviction(t *testing.T) {
	pool := newTestPool(t, 3, StrategyFIFO)

	h0 := mustPin(t, pool, 0)
	if err := MarkDirty(pool, h0); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	copy(h0.Data, []byte("hello, page zero"))
	if err := UnpinPage(pool, h0); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	for _, p := range []PageID{1, 2, 3} {
		h := mustPin(t, pool, p)
		if err := UnpinPage(pool, h); err != nil {
			t.Fatalf("UnpinPage(%d): %v", p, err)
		}
	}

	if GetNumWriteIO(pool) != 1 {
		t.Fatalf("writes = %d, want 1", GetNumWriteIO(pool))
	}
	if GetNumReadIO(pool) != 4 {
		t.Fatalf("reads = %d, want 4", GetNumReadIO(pool))
	}

	h0b := mustPin(t, pool, 0)
	if string(h0b.Data[:len("hello, page zero")]) != "hello, page zero" {
		t.Fatalf("page 0 bytes not durable: %q", h0b.Data[:len("hello, page zero")])
	}
}

// S5: pinning every frame then requesting a new page returns ErrNoFreeSlot
// and leaves pool state unchanged.
func TestScenarioS5AllPinned(t *testing.T) {
	pool := newTestPool(t, 3, StrategyFIFO)

	mustPin(t, pool, 0)
	mustPin(t, pool, 1)
	mustPin(t, pool, 2)

	before := GetFrameContents(pool)

	_, err := PinPage(pool, 3)
	if !errors.Is(err, ErrNoFreeSlot) {
		t.Fatalf("PinPage(3) error = %v, want ErrNoFreeSlot", err)
	}

	after := GetFrameContents(pool)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("pool state changed on failed pin: before=%v after=%v", before, after)
		}
	}
}

// S6: shutdown with a pinned frame fails with ErrPinnedPages and leaves the
// pool usable; unpinning and retrying succeeds.
func TestScenarioS6ShutdownWithPin(t *testing.T) {
	pool := newTestPool(t, 3, StrategyFIFO)

	h := mustPin(t, pool, 0)

	if err := ShutdownBufferPool(pool); !errors.Is(err, ErrPinnedPages) {
		t.Fatalf("ShutdownBufferPool error = %v, want ErrPinnedPages", err)
	}

	if err := UnpinPage(pool, h); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	if err := ShutdownBufferPool(pool); err != nil {
		t.Fatalf("ShutdownBufferPool after unpin: %v", err)
	}
}

func TestInitBufferPoolRejectsInvalidArguments(t *testing.T) {
	dir := t.TempDir()

	if _, err := InitBufferPool(filepath.Join(dir, "a.db"), 0, StrategyFIFO, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("numFrames=0 error = %v, want ErrInvalidArgument", err)
	}
	if _, err := InitBufferPool("", 3, StrategyFIFO, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty fileName error = %v, want ErrInvalidArgument", err)
	}
}

func TestUnpinUnderflowIsIgnored(t *testing.T) {
	pool := newTestPool(t, 2, StrategyFIFO)
	h := mustPin(t, pool, 0)
	if err := UnpinPage(pool, h); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}
	// A second unpin on an already-unpinned page is a silent no-op
	// (spec §4.3, §9), not an error.
	if err := UnpinPage(pool, h); err != nil {
		t.Fatalf("UnpinPage underflow: %v", err)
	}
	counts := GetFixCounts(pool)
	if counts[0] != 0 {
		t.Fatalf("pin count = %d, want 0", counts[0])
	}
}

func TestMarkDirtyAndForcePageOnUnknownPage(t *testing.T) {
	pool := newTestPool(t, 2, StrategyFIFO)
	bogus := &PageHandle{PageNumber: 99}

	if err := MarkDirty(pool, bogus); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("MarkDirty error = %v, want ErrPageNotFound", err)
	}
	if err := ForcePage(pool, bogus); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("ForcePage error = %v, want ErrPageNotFound", err)
	}
	if err := UnpinPage(pool, bogus); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("UnpinPage error = %v, want ErrPageNotFound", err)
	}
}

func TestForcePageNoopWhenClean(t *testing.T) {
	pool := newTestPool(t, 2, StrategyFIFO)
	h := mustPin(t, pool, 0)

	if err := ForcePage(pool, h); err != nil {
		t.Fatalf("ForcePage: %v", err)
	}
	if GetNumWriteIO(pool) != 0 {
		t.Fatalf("writes = %d, want 0 for a clean page", GetNumWriteIO(pool))
	}
}

func TestForceFlushPoolSkipsPinnedDirtyFrames(t *testing.T) {
	pool := newTestPool(t, 2, StrategyFIFO)

	h0 := mustPin(t, pool, 0)
	if err := MarkDirty(pool, h0); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}

	h1 := mustPin(t, pool, 1)
	if err := MarkDirty(pool, h1); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	if err := UnpinPage(pool, h1); err != nil {
		t.Fatalf("UnpinPage: %v", err)
	}

	if err := ForceFlushPool(pool); err != nil {
		t.Fatalf("ForceFlushPool: %v", err)
	}

	dirty := GetDirtyFlags(pool)
	if !dirty[0] {
		t.Fatal("pinned dirty frame 0 should remain dirty")
	}
	if dirty[1] {
		t.Fatal("unpinned dirty frame 1 should have been flushed")
	}
	if GetNumWriteIO(pool) != 1 {
		t.Fatalf("writes = %d, want 1", GetNumWriteIO(pool))
	}
}
