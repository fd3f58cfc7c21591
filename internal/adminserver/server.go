// Package adminserver exposes a buffer pool's introspection surface
// (spec §4.6) over HTTP and websocket, for operators and diagnostic
// tooling. It never touches the pin/unpin/markDirty/force protocol --
// it is read-only. Grounded on the teacher repo's pkg/server/server.go
// (router + middleware setup) and pkg/server/handlers/websocket.go
// (the upgrade-and-push pattern, here pushing pool stats instead of
// change-stream events).
package adminserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/tinodb/bufferpool/internal/bpconfig"
	"github.com/tinodb/bufferpool/internal/concurrent"
	"github.com/tinodb/bufferpool/internal/snapshot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is the HTTP+websocket introspection surface over a SyncPool.
type Server struct {
	config  *bpconfig.Config
	pool    *concurrent.SyncPool
	router  *chi.Mux
	httpSrv *http.Server
}

// New builds a Server wired to pool using config's admin settings.
func New(config *bpconfig.Config, pool *concurrent.SyncPool) *Server {
	s := &Server{
		config: config,
		pool:   pool,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.AdminHost, config.AdminPort),
		Handler:      s.router,
		ReadTimeout:  config.AdminReadTimeout,
		WriteTimeout: config.AdminWriteTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Logger)
}

func (s *Server) setupRoutes() {
	s.router.Get("/_stats", s.jsonHandler(s.handleStats))
	s.router.Get("/_frames", s.jsonHandler(s.handleFrames))
	s.router.Get("/_dirty", s.jsonHandler(s.handleDirty))
	s.router.Get("/_fixcounts", s.jsonHandler(s.handleFixCounts))
	s.router.Get("/_io", s.jsonHandler(s.handleIO))
	s.router.Get("/_stats/ws", s.handleStatsWebsocket)
}

func (s *Server) jsonHandler(f func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(f()); err != nil {
			log.Printf("adminserver: encode response: %v", err)
		}
	}
}

func (s *Server) handleStats() any      { return s.pool.Stats() }
func (s *Server) handleFrames() any     { return s.pool.Stats().FrameContents }
func (s *Server) handleDirty() any      { return s.pool.Stats().DirtyFlags }
func (s *Server) handleFixCounts() any  { return s.pool.Stats().FixCounts }
func (s *Server) handleIO() any {
	stats := s.pool.Stats()
	return map[string]int64{"num_read_io": stats.NumReadIO, "num_write_io": stats.NumWriteIO}
}

// handleStatsWebsocket upgrades the connection and pushes a fresh stats
// snapshot every StatsPushInterval until the client disconnects.
func (s *Server) handleStatsWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("adminserver: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.config.StatsPushInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.pool.Stats()); err != nil {
			return
		}
	}
}

// ExportSnapshot returns a zstd-compressed snapshot of the pool's
// introspection state, using the configured compression level.
func (s *Server) ExportSnapshot() ([]byte, error) {
	return snapshot.Export(s.pool, s.config.SnapshotCompressionLevel)
}

// ListenAndServe starts the HTTP server; it blocks until the server stops.
func (s *Server) ListenAndServe() error {
	log.Printf("adminserver: listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
