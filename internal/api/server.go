// Package api serves the local control surface: a loopback-only HTTP API
// over the snippet store and daemon status, consumed by external
// front-ends.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fakeyudi/snipt/internal/config"
	"github.com/fakeyudi/snipt/internal/snippet"
)

// portAttempts is how many consecutive ports are tried from the
// configured base.
const portAttempts = 10

// Server is the control API. Handlers are stateless; all shared state is
// the store, which serializes access with its own file locks.
type Server struct {
	Store *snippet.Store
	// Probe reports daemon liveness for the status endpoints.
	Probe func() (running bool, pid int)
	Log   *log.Logger

	port int
}

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func failure(msg string) Envelope {
	return Envelope{Success: false, Error: &msg}
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// Router assembles the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/api/snippets", s.handleList)
	r.Get("/api/snippet", s.handleGet)
	r.Post("/api/snippets", s.handleAdd)
	r.Put("/api/snippets", s.handleUpdate)
	r.Delete("/api/snippets", s.handleDelete)
	r.Get("/api/daemon/status", s.handleDaemonStatus)
	r.Get("/api/daemon/details", s.handleDaemonDetails)

	return r
}

// ListenAndServe binds the first free port starting at basePort, records
// it in the sidecar file, and serves until ctx is cancelled. Shutdown
// closes the listener, cancelling in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, basePort int) error {
	var (
		listener net.Listener
		err      error
	)
	for port := basePort; port < basePort+portAttempts; port++ {
		listener, err = net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			s.port = port
			break
		}
	}
	if listener == nil {
		return fmt.Errorf("no free port in %d-%d: %w", basePort, basePort+portAttempts-1, err)
	}

	if err := WritePortFile(s.port); err != nil {
		s.Log.Warn("failed to record API port", "err", err)
	}
	s.Log.Info("control API listening", "addr", listener.Addr())

	srv := &http.Server{Handler: s.Router()}

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		_ = srv.Close()
		if path, perr := config.PortPath(); perr == nil {
			_ = os.Remove(path)
		}
		<-done
		return nil
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Port returns the bound port, valid after ListenAndServe selected one.
func (s *Server) Port() int {
	return s.port
}

// WritePortFile records port in the sidecar file front-ends read.
func WritePortFile(port int) error {
	path, err := config.PortPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(port)), 0o644)
}

// ReadPortFile returns the recorded API port, or 0 when absent.
func ReadPortFile() (int, error) {
	path, err := config.PortPath()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("malformed port file %s", path)
	}
	return port, nil
}
