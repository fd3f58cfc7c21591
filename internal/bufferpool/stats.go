package bufferpool

import "fmt"

// GetFrameContents returns, in frame-index order, the PageID resident in
// each frame (Empty for an unoccupied frame). The caller owns the returned
// slice (spec §4.6, §9).
func GetFrameContents(pool *BufferPool) []PageID {
	out := make([]PageID, len(pool.frames))
	for i, fr := range pool.frames {
		out[i] = fr.resident
	}
	return out
}

// GetDirtyFlags returns, in frame-index order, each frame's dirty bit.
func GetDirtyFlags(pool *BufferPool) []bool {
	out := make([]bool, len(pool.frames))
	for i, fr := range pool.frames {
		out[i] = fr.dirty
	}
	return out
}

// GetFixCounts returns, in frame-index order, each frame's pin count.
func GetFixCounts(pool *BufferPool) []int {
	out := make([]int, len(pool.frames))
	for i, fr := range pool.frames {
		out[i] = fr.pinCount
	}
	return out
}

// GetNumReadIO returns the cumulative count of disk reads caused by pool.
func GetNumReadIO(pool *BufferPool) int64 {
	return pool.numReadIO
}

// GetNumWriteIO returns the cumulative count of disk writes caused by pool.
func GetNumWriteIO(pool *BufferPool) int64 {
	return pool.numWriteIO
}

// DebugString renders one line per frame -- index, resident page (or
// "empty"), pin count, and dirty bit -- for failure messages and the admin
// server's /_stats endpoint. Carried forward from the original C
// implementation's printPoolContent debug dump (see original_source/).
func DebugString(pool *BufferPool) string {
	s := fmt.Sprintf("bufferpool[%s] file=%s frames=%d reads=%d writes=%d\n",
		pool.strategy, pool.fileName, len(pool.frames), pool.numReadIO, pool.numWriteIO)
	for i, fr := range pool.frames {
		if fr.isEmpty() {
			s += fmt.Sprintf("  frame %d: empty\n", i)
			continue
		}
		s += fmt.Sprintf("  frame %d: page=%d pins=%d dirty=%t stamp=%d\n",
			i, fr.resident, fr.pinCount, fr.dirty, fr.stamp)
	}
	return s
}
