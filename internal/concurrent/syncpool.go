// Package concurrent wraps a bufferpool.BufferPool in a single mutex for
// callers that need to share one pool across goroutines. The core pool
// (internal/bufferpool) is deliberately single-threaded per spec §5; this
// is the extension that §5 explicitly sanctions: "An implementation
// targeting a multi-threaded environment MUST wrap the entire pool in a
// single mutex." It changes nothing about the core's internal invariants
// -- it only serializes access to them.
package concurrent

import (
	"sync"

	"github.com/tinodb/bufferpool/internal/bufferpool"
)

// SyncPool serializes all access to an underlying BufferPool with a single
// mutex, matching the coarse-grained locking the teacher repo's storage
// package applies around its own buffer pool (pkg/storage/buffer_pool.go).
// Finer-grained locking is a permissible extension the spec leaves out of
// scope (§5) and is not attempted here.
type SyncPool struct {
	mu   sync.Mutex
	pool *bufferpool.BufferPool
}

// New wraps pool for concurrent use.
func New(pool *bufferpool.BufferPool) *SyncPool {
	return &SyncPool{pool: pool}
}

// Pin pins pageNumber, serialized against every other SyncPool method.
func (sp *SyncPool) Pin(pageNumber bufferpool.PageID) (*bufferpool.PageHandle, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.PinPage(sp.pool, pageNumber)
}

// Unpin releases handle.
func (sp *SyncPool) Unpin(handle *bufferpool.PageHandle) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.UnpinPage(sp.pool, handle)
}

// MarkDirty marks handle's page dirty.
func (sp *SyncPool) MarkDirty(handle *bufferpool.PageHandle) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.MarkDirty(sp.pool, handle)
}

// ForcePage writes handle's page back if dirty.
func (sp *SyncPool) ForcePage(handle *bufferpool.PageHandle) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.ForcePage(sp.pool, handle)
}

// ForceFlushAll writes back every unpinned dirty frame.
func (sp *SyncPool) ForceFlushAll() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.ForceFlushPool(sp.pool)
}

// Shutdown flushes and tears down the underlying pool.
func (sp *SyncPool) Shutdown() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return bufferpool.ShutdownBufferPool(sp.pool)
}

// Snapshot is a point-in-time, caller-owned copy of the pool's
// introspection state (spec §4.6), taken atomically with respect to every
// other SyncPool method.
type Snapshot struct {
	FrameContents []bufferpool.PageID
	DirtyFlags    []bool
	FixCounts     []int
	NumReadIO     int64
	NumWriteIO    int64
	Debug         string
}

// Stats takes a consistent snapshot of the pool's introspection accessors.
func (sp *SyncPool) Stats() Snapshot {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return Snapshot{
		FrameContents: bufferpool.GetFrameContents(sp.pool),
		DirtyFlags:    bufferpool.GetDirtyFlags(sp.pool),
		FixCounts:     bufferpool.GetFixCounts(sp.pool),
		NumReadIO:     bufferpool.GetNumReadIO(sp.pool),
		NumWriteIO:    bufferpool.GetNumWriteIO(sp.pool),
		Debug:         bufferpool.DebugString(sp.pool),
	}
}
