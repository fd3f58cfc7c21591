// Command bufferpoold stands up a buffer pool against a backing file and
// serves its introspection surface over HTTP+websocket.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinodb/bufferpool/internal/adminserver"
	"github.com/tinodb/bufferpool/internal/bpconfig"
	"github.com/tinodb/bufferpool/internal/bufferpool"
	"github.com/tinodb/bufferpool/internal/concurrent"
)

func main() {
	host := flag.String("host", "localhost", "Admin server host address")
	port := flag.Int("port", 8080, "Admin server port")
	dataFile := flag.String("data-file", "./data/pages.db", "Backing page file")
	frameCount := flag.Int("frames", 1000, "Number of frames in the pool (1 frame = 4KB, default 1000 = ~4MB)")
	strategy := flag.String("strategy", "FIFO", "Replacement strategy: FIFO, LRU, or LRU_K")
	flag.Parse()

	config := bpconfig.DefaultConfig(*dataFile)
	config.AdminHost = *host
	config.AdminPort = *port
	config.FrameCount = *frameCount
	config.Strategy = bufferpool.ParseStrategy(*strategy)

	if err := os.MkdirAll(filepath.Dir(*dataFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "bufferpoold: failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	pool, err := bufferpool.InitBufferPool(config.DataFile, config.FrameCount, config.Strategy, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bufferpoold: failed to init buffer pool: %v\n", err)
		os.Exit(1)
	}

	syncPool := concurrent.New(pool)
	srv := adminserver.New(config, syncPool)

	fmt.Printf("bufferpoold: %s strategy, %d frames, backing file %s\n",
		config.Strategy, config.FrameCount, config.DataFile)

	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "bufferpoold: server error: %v\n", err)
		os.Exit(1)
	}
}
