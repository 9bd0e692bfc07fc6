// Package server exposes the quote catalog over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/scheduler"
)

// Server serves random quotes from the current catalog.
type Server struct {
	catalog atomic.Pointer[catalog.Catalog]
	health  *scheduler.Health
	metrics http.Handler

	mu  sync.Mutex
	rng *rand.Rand

	httpServer *http.Server
}

// Config holds configuration for the server.
type Config struct {
	Addr    string
	Catalog *catalog.Catalog
	Health  *scheduler.Health
	Metrics http.Handler // Optional; /metrics is not served when nil
	Rand    *rand.Rand   // Optional; seeded randomly when nil
}

// New creates a new server.
func New(cfg Config) *Server {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	health := cfg.Health
	if health == nil {
		health = scheduler.NewHealth()
	}

	s := &Server{
		health:  health,
		metrics: cfg.Metrics,
		rng:     rng,
	}

	c := cfg.Catalog
	if c == nil {
		c = catalog.New(nil)
	}
	s.catalog.Store(c)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// SetCatalog replaces the catalog served by future requests.
func (s *Server) SetCatalog(c *catalog.Catalog) {
	s.catalog.Store(c)
	slog.Info("catalog replaced", "champions", c.Len())
}

// Catalog returns the catalog currently served.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog.Load()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /quote", s.handleQuote)
	mux.HandleFunc("GET /champions", s.handleChampions)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return mux
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("http server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type quoteResponse struct {
	Champion string `json:"champion"`
	Quote    string `json:"quote"`
	Icon     string `json:"icon"`
}

type championSummary struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Quotes int    `json:"quotes"`
}

type healthResponse struct {
	Status     string                            `json:"status"`
	Champions  int                               `json:"champions"`
	Components map[string]scheduler.HealthStatus `json:"components"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	c := s.catalog.Load()

	name := r.URL.Query().Get("champion")
	if name == "" {
		s.mu.Lock()
		name = c.RandomChampion(s.rng)
		s.mu.Unlock()
		if name == "" {
			writeError(w, http.StatusServiceUnavailable, "no champions loaded")
			return
		}
	}

	entry, err := c.Lookup(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.mu.Lock()
	quote, ok, err := c.Random(entry.Name, s.rng)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no quotes for %s", entry.Name))
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Champion: entry.Name,
		Quote:    quote,
		Icon:     entry.Icon,
	})
}

func (s *Server) handleChampions(w http.ResponseWriter, r *http.Request) {
	c := s.catalog.Load()

	out := make([]championSummary, 0, c.Len())
	for _, name := range c.Names() {
		entry, err := c.Get(name)
		if err != nil {
			continue
		}
		out = append(out, championSummary{Name: entry.Name, Icon: entry.Icon, Quotes: len(entry.Quotes)})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		Champions:  s.catalog.Load().Len(),
		Components: s.health.GetAllStatuses(),
	}

	status := http.StatusOK
	if !s.health.IsOverallHealthy() {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// writeJSON encodes into a buffer first so a failed encode sends no partial body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
