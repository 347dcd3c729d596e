// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package server exposes the extension registry over HTTP.
//
// Every endpoint answers with JSON:
//
//	GET /api/v1/navigation   menu of the caller, built-in groups first
//	GET /api/v1/routes       routes of every extension
//	GET /api/v1/extensions   loaded extensions
//	GET /api/v1/permissions  permission groups declared by the extensions
//	GET /readyz              200 once the extensions are loaded, 503 before
//
// The handler serves HTTP/1.1 and cleartext HTTP/2.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/atomic"

	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/extension"
	inet "github.com/diaoyongbao/fe-sub001/internal/http"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/navigation"
	"github.com/diaoyongbao/fe-sub001/registry"
)

// ExtensionInfo describes a loaded extension
type ExtensionInfo struct {
	ID                 string `json:"id"`
	Name               string `json:"name,omitempty"`
	Version            string `json:"version,omitempty"`
	RequiresPermission bool   `json:"requiresPermission"`
}

// Server is the console extension HTTP API
type Server struct {
	registry *registry.Registry
	builtin  []*extension.MenuNode
	logger   log.Logger

	server   *http.Server
	listener net.Listener
	started  *atomic.Bool
}

// New creates an instance of Server answering from reg
func New(reg *registry.Registry, opts ...Option) *Server {
	server := &Server{
		registry: reg,
		logger:   log.DefaultLogger,
		started:  atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(server)
	}
	return server
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/navigation", s.navigation)
	mux.HandleFunc("GET /api/v1/routes", s.routes)
	mux.HandleFunc("GET /api/v1/extensions", s.extensions)
	mux.HandleFunc("GET /api/v1/permissions", s.permissions)
	mux.HandleFunc("GET /readyz", s.ready)
	return inet.NewH2CHandler(mux)
}

// Start binds address and serves the API in the background.
func (s *Server) Start(ctx context.Context, address string) error {
	if s.started.Load() {
		return nil
	}

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.started.Store(true)
	go func() {
		if err := s.server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err)
		}
	}()

	s.logger.Infof("console API listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, nil when not started
func (s *Server) Addr() net.Addr {
	if !s.started.Load() {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts the API down
func (s *Server) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}
	s.started.Store(false)
	return s.server.Shutdown(ctx)
}

// navigation answers before the load completes: extensions not loaded yet are absent.
func (s *Server) navigation(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, navigation.Compose(s.builtin, s.registry, ProfileFromRequest(r)))
}

func (s *Server) routes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Routes())
}

func (s *Server) extensions(w http.ResponseWriter, _ *http.Request) {
	descriptors := s.registry.Extensions()
	infos := make([]ExtensionInfo, 0, len(descriptors))
	for _, descriptor := range descriptors {
		infos = append(infos, ExtensionInfo{
			ID:                 descriptor.ID,
			Name:               descriptor.Name,
			Version:            descriptor.Version,
			RequiresPermission: descriptor.NeedsPermission(),
		})
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) permissions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.DeclaredPermissions())
}

func (s *Server) ready(w http.ResponseWriter, _ *http.Request) {
	if !s.registry.IsInitialized() {
		s.writeError(w, http.StatusServiceUnavailable, errors.ErrNotReady)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	bytea, err := json.Marshal(body)
	if err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
		status = http.StatusInternalServerError
		bytea = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(bytea); err != nil {
		s.logger.Warnf("failed to write response: %v", err)
	}
}
