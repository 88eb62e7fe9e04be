// Package server
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/spelldex/spelldex"
)

// Defaults
const (
	DefaultHost          = "localhost"
	DefaultPort          = 8080
	DefaultReadTimeout   = 15 * time.Second
	DefaultWriteTimeout  = 15 * time.Second
	DefaultIdleTimeout   = 60 * time.Second
	DefaultMaxBodyBytes  = 8 * 1024 * 1024 // Largest accepted request body
	DefaultShutdownGrace = 5 * time.Second
)

// Config holds the HTTP server configuration
type Config struct {
	Host          string        // Address to listen on
	Port          int           // Port to listen on
	ReadTimeout   time.Duration // Maximum duration for reading a request
	WriteTimeout  time.Duration // Maximum duration for writing a response
	IdleTimeout   time.Duration // Keep-alive idle timeout
	MaxBodyBytes  int64         // Largest accepted request body
	EnableLogging bool          // Log every request
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		IdleTimeout:   DefaultIdleTimeout,
		MaxBodyBytes:  DefaultMaxBodyBytes,
		EnableLogging: true,
	}
}

// Server serves lookups against a dictionary over HTTP and websockets.
// The dictionary itself is not safe for concurrent use, the server guards it with mu.
type Server struct {
	config    *Config
	dict      *spelldex.Dictionary
	mu        sync.RWMutex // Writers take the lock, lookups share it
	router    *chi.Mux
	httpSrv   *http.Server
	startTime time.Time

	streamsMu sync.Mutex                   // Guards streams
	streams   map[*websocket.Conn]struct{} // Open websocket connections, closed on shutdown
}

// New creates a new HTTP server instance for dict
func New(config *Config, dict *spelldex.Dictionary) (*Server, error) {
	if dict == nil {
		return nil, errors.New("dictionary cannot be nil")
	}

	if config == nil {
		config = DefaultConfig()
	}

	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	srv := &Server{
		config:    config,
		dict:      dict,
		router:    chi.NewRouter(),
		startTime: time.Now(),
		streams:   make(map[*websocket.Conn]struct{}),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	srv.httpSrv = &http.Server{
		Addr:         net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Handler:      srv.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	// Shutdown does not wait for hijacked connections
	srv.httpSrv.RegisterOnShutdown(srv.closeStreams)

	return srv, nil
}

// setupMiddleware configures HTTP middleware stack
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableLogging {
		s.router.Use(middleware.Logger)
	}

	s.router.Use(s.requestSizeLimitMiddleware)
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	s.router.Get("/_health", s.handleHealth)
	s.router.Get("/_stats", s.handleStats)

	s.router.Route("/words", func(r chi.Router) {
		r.Post("/", s.handleAddWords)
		r.Get("/{word}", s.handleLookup)
	})

	s.router.Post("/check", s.handleCheck)

	// Websocket upgrades must not be wrapped by a timeout
	s.router.Get("/_ws/check", s.handleCheckStream)
}

// requestSizeLimitMiddleware limits request body size
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// Handler returns the server's router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownGrace)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}

// CloseDictionary closes the dictionary once no request is using it.
// Requests served afterwards see a closed dictionary.
func (s *Server) CloseDictionary() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dict.Close()
}

// trackStream registers or forgets an open websocket connection
func (s *Server) trackStream(conn *websocket.Conn, open bool) {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()

	if open {
		s.streams[conn] = struct{}{}
	} else {
		delete(s.streams, conn)
	}
}

// closeStreams closes every open websocket connection
func (s *Server) closeStreams() {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()

	for conn := range s.streams {
		_ = conn.Close()
		delete(s.streams, conn)
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
