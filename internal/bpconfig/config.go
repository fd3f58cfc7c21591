// Package bpconfig holds the configuration surface for a buffer-pooled
// process: where the backing file lives, how many frames to allocate, and
// how the optional admin server should listen. Mirrors the teacher
// repo's Config/DefaultConfig pairing (pkg/server/config.go,
// pkg/storage/storage.go's storage Config).
package bpconfig

import (
	"time"

	"github.com/tinodb/bufferpool/internal/bufferpool"
)

// Config holds everything needed to stand up a buffer pool and, optionally,
// its admin HTTP surface.
type Config struct {
	// DataFile is the backing page file path.
	DataFile string
	// FrameCount is the number of frames in the pool (N in spec §2).
	FrameCount int
	// Strategy selects the replacement policy.
	Strategy bufferpool.Strategy

	// AdminHost/AdminPort: where the introspection HTTP+websocket server
	// listens, if started.
	AdminHost string
	AdminPort int
	// AdminReadTimeout/AdminWriteTimeout bound the admin server's HTTP
	// handlers.
	AdminReadTimeout  time.Duration
	AdminWriteTimeout time.Duration

	// StatsPushInterval is how often the websocket stats feed pushes a
	// fresh snapshot to connected clients.
	StatsPushInterval time.Duration

	// SnapshotCompressionLevel is the zstd level used when exporting a
	// compressed introspection snapshot (internal/snapshot).
	SnapshotCompressionLevel int
}

// DefaultConfig returns a configuration with sensible defaults: a 1000-page
// (~4MB) FIFO pool and an admin server on localhost:8080.
func DefaultConfig(dataFile string) *Config {
	return &Config{
		DataFile:                 dataFile,
		FrameCount:               1000,
		Strategy:                 bufferpool.StrategyFIFO,
		AdminHost:                "localhost",
		AdminPort:                8080,
		AdminReadTimeout:         5 * time.Second,
		AdminWriteTimeout:        5 * time.Second,
		StatsPushInterval:        2 * time.Second,
		SnapshotCompressionLevel: 3,
	}
}
