package bufferpool

import "fmt"

// PinPage resolves pageNumber to a resident frame, loading it from disk and
// evicting a victim if necessary, and returns a handle aliasing the
// frame's bytes (spec §4.2).
func PinPage(pool *BufferPool, pageNumber PageID) (*PageHandle, error) {
	if pool == nil {
		return nil, fmt.Errorf("pin page: %w", ErrInvalidArgument)
	}
	if pageNumber < 0 {
		return nil, fmt.Errorf("pin page %d: %w", pageNumber, ErrInvalidArgument)
	}

	if idx := pool.findResident(pageNumber); idx != -1 {
		fr := pool.frames[idx]
		fr.pinCount++
		pool.clock++
		fr.stamp = pool.clock
		return &PageHandle{PageNumber: pageNumber, Data: fr.bytes}, nil
	}

	victim := pool.selectVictim()
	if victim == -1 {
		return nil, fmt.Errorf("pin page %d: %w", pageNumber, ErrNoFreeSlot)
	}

	fr := pool.frames[victim]
	if !fr.isEmpty() && fr.dirty {
		if err := pool.writeBack(fr); err != nil {
			return nil, fmt.Errorf("pin page %d: %w", pageNumber, err)
		}
	}

	if err := pool.file.GrowToAtLeast(int64(pageNumber) + 1); err != nil {
		return nil, fmt.Errorf("pin page %d: %w: %v", pageNumber, ErrWriteFailed, err)
	}
	if err := pool.file.ReadPage(int64(pageNumber), fr.bytes); err != nil {
		return nil, fmt.Errorf("pin page %d: %w: %v", pageNumber, ErrReadNonExistingPage, err)
	}
	pool.numReadIO++

	fr.resident = pageNumber
	fr.dirty = false
	fr.pinCount = 1
	pool.clock++
	fr.stamp = pool.clock

	return &PageHandle{PageNumber: pageNumber, Data: fr.bytes}, nil
}

// UnpinPage decrements the pin count of handle's page. Decrementing below
// zero is silently ignored (spec §4.3, §9: the lenient underflow-protection
// policy). Returns ErrPageNotFound if the page is not resident.
func UnpinPage(pool *BufferPool, handle *PageHandle) error {
	if pool == nil || handle == nil {
		return fmt.Errorf("unpin page: %w", ErrInvalidArgument)
	}
	fr, err := pool.residentFrame(handle.PageNumber)
	if err != nil {
		return fmt.Errorf("unpin page %d: %w", handle.PageNumber, err)
	}
	if fr.pinCount > 0 {
		fr.pinCount--
	}
	return nil
}

// MarkDirty marks handle's page as modified. Legal even when the page is
// unpinned -- the core does not enforce that clients only mutate while
// pinned (spec §4.3, §9).
func MarkDirty(pool *BufferPool, handle *PageHandle) error {
	if pool == nil || handle == nil {
		return fmt.Errorf("mark dirty: %w", ErrInvalidArgument)
	}
	fr, err := pool.residentFrame(handle.PageNumber)
	if err != nil {
		return fmt.Errorf("mark dirty %d: %w", handle.PageNumber, err)
	}
	fr.dirty = true
	return nil
}

// ForcePage writes handle's page to disk if dirty, clearing the dirty bit;
// a no-op if the page is clean. Increments the write-IO counter only on an
// actual write (spec §4.3).
func ForcePage(pool *BufferPool, handle *PageHandle) error {
	if pool == nil || handle == nil {
		return fmt.Errorf("force page: %w", ErrInvalidArgument)
	}
	fr, err := pool.residentFrame(handle.PageNumber)
	if err != nil {
		return fmt.Errorf("force page %d: %w", handle.PageNumber, err)
	}
	if !fr.dirty {
		return nil
	}
	if err := pool.writeBack(fr); err != nil {
		return fmt.Errorf("force page %d: %w", handle.PageNumber, err)
	}
	return nil
}

// findResident returns the index of the frame holding pageNumber, or -1.
func (bp *BufferPool) findResident(pageNumber PageID) int {
	for i, fr := range bp.frames {
		if fr.resident == pageNumber {
			return i
		}
	}
	return -1
}

// residentFrame returns the frame holding pageNumber, or ErrPageNotFound.
func (bp *BufferPool) residentFrame(pageNumber PageID) (*Frame, error) {
	idx := bp.findResident(pageNumber)
	if idx == -1 {
		return nil, ErrPageNotFound
	}
	return bp.frames[idx], nil
}
