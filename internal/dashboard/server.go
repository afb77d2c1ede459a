/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package dashboard serves the live web dashboard: the embedded page, frame snapshots
// and a websocket that pushes a frame on every collector tick.
package dashboard

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/history"
	"github.com/phuonguno98/unodash/internal/render"
	"github.com/phuonguno98/unodash/internal/server"
	"github.com/phuonguno98/unodash/pkg/metrics"
	"github.com/phuonguno98/unodash/pkg/version"
	"github.com/phuonguno98/unodash/web"
)

// SampleReader exposes the most recent sample and static CPU information.
type SampleReader interface {
	Latest() *metrics.Sample
	CPUInfo() metrics.CPUInfo
}

// Server is the dashboard HTTP server.
type Server struct {
	history *history.Buffer
	samples SampleReader
	hub     *Hub
	logger  *slog.Logger
	router  *mux.Router
}

// NewServer creates the dashboard over hist, reading text blocks from samples.
func NewServer(hist *history.Buffer, samples SampleReader, logger *slog.Logger) *Server {
	s := &Server{
		history: hist,
		samples: samples,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.hub = NewHub(s.Frame, hist.Cores, logger)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	server.Use(s.router, s.logger)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/frame", s.handleFrame).Methods(http.MethodGet)
	s.router.HandleFunc("/api/cores", s.handleCores).Methods(http.MethodGet)
	s.router.HandleFunc("/api/version", s.handleGetVersion).Methods(http.MethodGet)
	s.router.Handle("/ws", s.hub)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run pushes a frame to websocket clients for every sample until ctx is done.
func (s *Server) Run(ctx context.Context, samples <-chan *metrics.Sample) {
	s.hub.Run(ctx, samples)
}

// Frame builds the current frame for a core selection.
func (s *Server) Frame(selected []int) render.Frame {
	return render.BuildFrame(s.history.Snapshot(), selected, s.samples.Latest(), s.samples.CPUInfo())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	indexFile, err := web.Assets.Open("index.html")
	if err != nil {
		s.logger.Error("Failed to open index.html", "error", err)
		http.Error(w, "Internal Server Error: index.html not found", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := indexFile.Close(); err != nil {
			s.logger.Warn("Failed to close index.html", "error", err)
		}
	}()

	if _, err := io.Copy(w, indexFile); err != nil {
		s.logger.Error("Failed to serve index.html", "error", err)
	}
}

// handleFrame serves one frame. Without a cores parameter every core is selected.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	n := s.history.Cores()
	selected := render.AllCores(n)
	if labels, ok := r.URL.Query()["cores"]; ok {
		selected = render.ParseCores(config.SplitValues(labels), n)
	}
	server.WriteJSON(w, s.logger, http.StatusOK, s.Frame(selected))
}

func (s *Server) handleCores(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, s.logger, http.StatusOK, map[string]int{"count": s.history.Cores()})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	versionInfo := map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	}
	server.WriteJSON(w, s.logger, http.StatusOK, versionInfo)
}
