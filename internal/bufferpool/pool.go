package bufferpool

import (
	"fmt"

	"github.com/tinodb/bufferpool/internal/pagefile"
)

// BufferPool is a fixed-size in-memory cache of fixed-size pages belonging
// to a single backing file, together with the FIFO/LRU replacement policy
// that evicts pages when the cache is full (spec §2, §3).
//
// BufferPool is single-threaded: no method is safe to call concurrently
// with another call on the same pool (spec §5). Callers that need a
// multi-threaded pool should wrap one in internal/concurrent.SyncPool
// rather than adding locking here.
type BufferPool struct {
	fileName string
	strategy Strategy
	file     pagefile.PageFile

	frames []*Frame
	clock  int64
	next   int

	numReadIO  int64
	numWriteIO int64
}

// InitBufferPool allocates a frame table of numFrames empty frames backed
// by fileName, creating the file (with one zero-filled page) if it does
// not already exist. stratData is reserved for future strategy parameters
// and is ignored by this core (spec §6).
func InitBufferPool(fileName string, numFrames int, strategy Strategy, stratData any) (*BufferPool, error) {
	if fileName == "" {
		return nil, fmt.Errorf("init buffer pool: %w", ErrInvalidArgument)
	}
	if numFrames <= 0 {
		return nil, fmt.Errorf("init buffer pool: frame count %d: %w", numFrames, ErrInvalidArgument)
	}

	file, err := pagefile.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("init buffer pool: %w: %v", ErrFileNotFound, err)
	}

	frames := make([]*Frame, numFrames)
	for i := range frames {
		frames[i] = newEmptyFrame()
	}

	return &BufferPool{
		fileName: fileName,
		strategy: strategy,
		file:     file,
		frames:   frames,
		clock:    0,
		next:     0,
	}, nil
}

// ShutdownBufferPool flushes every dirty frame to disk and releases the
// pool's resources. It fails with ErrPinnedPages, leaving the pool intact
// and usable, if any frame still has pinCount > 0 (spec §4.1).
func ShutdownBufferPool(pool *BufferPool) error {
	if pool == nil {
		return fmt.Errorf("shutdown buffer pool: %w", ErrInvalidArgument)
	}

	for _, fr := range pool.frames {
		if fr.pinCount > 0 {
			return fmt.Errorf("shutdown buffer pool: page %d still pinned: %w", fr.resident, ErrPinnedPages)
		}
	}

	for _, fr := range pool.frames {
		if fr.dirty {
			if err := pool.writeBack(fr); err != nil {
				return fmt.Errorf("shutdown buffer pool: %w", err)
			}
		}
	}

	if err := pool.file.Close(); err != nil {
		return fmt.Errorf("shutdown buffer pool: %w", err)
	}

	pool.frames = nil
	pool.fileName = ""
	pool.file = nil
	return nil
}

// ForceFlushPool writes back every frame that is dirty AND unpinned,
// clearing its dirty bit. Pinned dirty frames are left untouched. A no-op
// if no frame qualifies (spec §4.1).
func ForceFlushPool(pool *BufferPool) error {
	if pool == nil {
		return fmt.Errorf("force flush pool: %w", ErrInvalidArgument)
	}
	for _, fr := range pool.frames {
		if fr.dirty && fr.pinCount == 0 {
			if err := pool.writeBack(fr); err != nil {
				return fmt.Errorf("force flush pool: %w", err)
			}
		}
	}
	return nil
}

// writeBack writes fr's bytes to disk and clears its dirty bit. Must only
// be called on a non-empty frame.
func (bp *BufferPool) writeBack(fr *Frame) error {
	if err := bp.file.GrowToAtLeast(int64(fr.resident) + 1); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := bp.file.WritePage(int64(fr.resident), fr.bytes); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	bp.numWriteIO++
	fr.dirty = false
	return nil
}
