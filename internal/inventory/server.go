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

package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/phuonguno98/unodash/internal/config"
	"github.com/phuonguno98/unodash/internal/server"
)

// MaxBodySize limits item request bodies (1MB).
const MaxBodySize = 1 << 20

const detailNotFound = "Item not found"

// Server exposes the inventory over HTTP.
type Server struct {
	service *Service
	logger  *slog.Logger
	router  *mux.Router
}

// NewServer creates the inventory API router.
func NewServer(service *Service, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	server.Use(s.router, s.logger)

	s.router.HandleFunc("/items", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/items", s.handleCreate).Methods(http.MethodPost)
	// Registered before /items/{id} so "filter" is never read as an id
	s.router.HandleFunc("/items/filter", s.handleFilter).Methods(http.MethodGet)
	s.router.HandleFunc("/items/filter/", s.handleFilter).Methods(http.MethodGet)
	s.router.HandleFunc("/items/{id}", s.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc("/items/{id}", s.handleUpdate).Methods(http.MethodPut)
	s.router.HandleFunc("/items/{id}", s.handleDelete).Methods(http.MethodDelete)

	// Query contract: PUT /sale/?id=1&id=2
	s.router.HandleFunc("/sale/", s.handleSaleQuery).Methods(http.MethodPut)
	s.router.HandleFunc("/sale", s.handleSaleQuery).Methods(http.MethodPut)
	// Path contract: GET /sale/1,2
	s.router.HandleFunc("/sale/{ids}", s.handleSalePath).Methods(http.MethodGet)

	// Query contract: PUT /increment/?id=1&quantity=10
	s.router.HandleFunc("/increment/", s.handleIncrementQuery).Methods(http.MethodPut)
	s.router.HandleFunc("/increment", s.handleIncrementQuery).Methods(http.MethodPut)
	// Path contract: GET /increment/1,2/10,5
	s.router.HandleFunc("/increment/{ids}/{quantities}", s.handleIncrementPath).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped with CORS headers.
func (s *Server) Handler() http.Handler {
	return server.CORS(s, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.Store().List(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	item, err := s.service.Store().Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, item)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := s.service.Store().Create(r.Context(), input.Item())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.Info("Item created", "id", item.ID, "title", item.Title)
	server.WriteJSON(w, s.logger, http.StatusOK, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := s.service.Store().Update(r.Context(), id, input.Item())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.Info("Item updated", "id", id)
	server.WriteJSON(w, s.logger, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.service.Store().Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.Info("Item deleted", "id", id)
	server.WriteJSON(w, s.logger, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	items, err := s.service.Filter(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, items)
}

func (s *Server) handleSaleQuery(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs("id", config.SplitValues(r.URL.Query()["id"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.sell(w, r, ids)
}

func (s *Server) handleSalePath(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs("ids", config.ParseCommaSeparated(mux.Vars(r)["ids"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.sell(w, r, ids)
}

func (s *Server) sell(w http.ResponseWriter, r *http.Request, ids []int64) {
	result, err := s.service.Sell(r.Context(), ids)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, result)
}

func (s *Server) handleIncrementQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids, err := parseIDs("id", config.SplitValues(q["id"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	amounts, err := parseInts("quantity", config.SplitValues(q["quantity"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.increment(w, r, ids, amounts)
}

func (s *Server) handleIncrementPath(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ids, err := parseIDs("ids", config.ParseCommaSeparated(vars["ids"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	amounts, err := parseInts("quantities", config.ParseCommaSeparated(vars["quantities"]))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.increment(w, r, ids, amounts)
}

func (s *Server) increment(w http.ResponseWriter, r *http.Request, ids []int64, amounts []int) {
	items, err := s.service.Increment(r.Context(), ids, amounts)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	server.WriteJSON(w, s.logger, http.StatusOK, items)
}

// pathID reads the {id} variable, writing a 422 when it is not an integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeStoreError(w, &ValidationError{Field: "id", Reason: "must be an integer"})
		return 0, false
	}
	return id, true
}

// decodeInput reads and validates an item body. Malformed JSON is a 400, invalid fields a 422.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*ItemInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var input ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		server.WriteDetail(w, s.logger, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return nil, false
	}
	if err := input.Validate(); err != nil {
		s.writeStoreError(w, err)
		return nil, false
	}
	return &input, true
}

// writeStoreError maps inventory errors onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var invalid *ValidationError

	switch {
	case errors.Is(err, ErrNotFound):
		server.WriteDetail(w, s.logger, http.StatusNotFound, detailNotFound)
	case errors.As(err, &invalid), errors.Is(err, ErrNoIDs):
		server.WriteDetail(w, s.logger, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrLengthMismatch), errors.Is(err, ErrNonPositiveAmount),
		errors.Is(err, ErrQuantityOverflow):
		server.WriteDetail(w, s.logger, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Inventory operation failed", "error", err)
		server.WriteDetail(w, s.logger, http.StatusInternalServerError, "Internal Server Error")
	}
}

func parseIDs(field string, raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not an integer", v)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseInts(field string, raw []string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not an integer", v)}
		}
		out = append(out, n)
	}
	return out, nil
}
