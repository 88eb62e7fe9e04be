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
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spelldex/spelldex"
)

// LookupResponse is returned by GET /words/{word}
type LookupResponse struct {
	Word    string `json:"word"`
	Present bool   `json:"present"`
}

// AddResponse is returned by POST /words
type AddResponse struct {
	Added int    `json:"added"`
	Words int    `json:"words"`
	Error string `json:"error,omitempty"`
}

// HealthResponse is returned by GET /_health
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	stats := s.dict.Stats()
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	s.mu.RLock()
	present := s.dict.Contains(word)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, LookupResponse{Word: word, Present: present})
}

// handleAddWords adds the newline separated words of the request body
func (s *Server) handleAddWords(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}

	// Read the whole body before taking the write lock
	s.mu.Lock()
	added, err := s.dict.Load(bytes.NewReader(body))
	words := s.dict.Len()
	s.mu.Unlock()

	resp := AddResponse{Added: added, Words: words}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCheck checks the request body as text
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}

	report, err := s.check(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// check runs a check under the read lock
func (s *Server) check(text string) (*spelldex.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.CheckString(text)
}
