// Package snapshot exports a point-in-time dump of a buffer pool's
// introspection state (spec §4.6) as zstd-compressed JSON, for offline
// diagnostics. It never touches the backing page file's on-disk format --
// spec §6 requires that to remain a header-less page sequence -- it only
// compresses an out-of-band debug artifact. Grounded on the teacher repo's
// pkg/compression/compression.go, narrowed to the one codec this tool
// actually needs.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/tinodb/bufferpool/internal/concurrent"
)

// Record is the JSON-serializable shape of a pool snapshot.
type Record struct {
	FrameContents []int64 `json:"frame_contents"`
	DirtyFlags    []bool  `json:"dirty_flags"`
	FixCounts     []int   `json:"fix_counts"`
	NumReadIO     int64   `json:"num_read_io"`
	NumWriteIO    int64   `json:"num_write_io"`
}

func toRecord(snap concurrent.Snapshot) Record {
	contents := make([]int64, len(snap.FrameContents))
	for i, p := range snap.FrameContents {
		contents[i] = int64(p)
	}
	return Record{
		FrameContents: contents,
		DirtyFlags:    snap.DirtyFlags,
		FixCounts:     snap.FixCounts,
		NumReadIO:     snap.NumReadIO,
		NumWriteIO:    snap.NumWriteIO,
	}
}

// Export takes a snapshot of pool and returns it as zstd-compressed JSON at
// the given compression level.
func Export(pool *concurrent.SyncPool, level int) ([]byte, error) {
	record := toRecord(pool.Stats())

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("snapshot: new zstd writer: %w", err)
	}
	if _, err := enc.Write(payload); err != nil {
		enc.Close()
		return nil, fmt.Errorf("snapshot: compress: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: flush: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode reverses Export, for tests and diagnostic tooling that need to
// read a previously exported snapshot back.
func Decode(compressed []byte) (Record, error) {
	dec, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Record{}, fmt.Errorf("snapshot: new zstd reader: %w", err)
	}
	defer dec.Close()

	payload, err := io.ReadAll(dec)
	if err != nil {
		return Record{}, fmt.Errorf("snapshot: decompress: %w", err)
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return record, nil
}
