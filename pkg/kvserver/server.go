// Copyright © 2024 Bank-Vaults Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kvserver serves the remote key/value protocol used by the server
// storage mode on top of any store client.
package kvserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

const RequestIDHeader = "X-Request-Id"

// SetRequest is the body accepted by POST /set.
type SetRequest struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Locked bool   `json:"locked"`
}

// Response is the status body returned by mutating endpoints and errors.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type server struct {
	store v1alpha1.StoreClient
}

// New returns a handler serving GET /get/{key}, POST /set, DELETE /delete/{key},
// GET /info/{key} and GET /health backed by store. Locks are not enforced.
func New(store v1alpha1.StoreClient) http.Handler {
	s := &server{store: store}

	r := chi.NewRouter()
	r.Use(requestID, accessLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/get/{key}", s.handleGet)
	r.Post("/set", s.handleSet)
	r.Delete("/delete/{key}", s.handleDelete)
	r.Get("/info/{key}", s.handleInfo)

	return r
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}

	result, err := s.store.GetEntry(r.Context(), key)
	if errors.Is(err, v1alpha1.ErrKeyNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Message: "Key not found"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Value is always present on hits, even when it is an empty string
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"value":   result.Entry.Value,
		"locked":  result.Entry.Locked,
	})
}

func (s *server) handleSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid request body"})
		return
	}
	if req.Key == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Key is required"})
		return
	}

	entry := v1alpha1.Entry{Value: v1alpha1.NormalizeValue(req.Value), Locked: req.Locked}
	if _, err := s.store.SetEntry(r.Context(), req.Key, entry); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Value set successfully"})
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}

	if _, err := s.store.DeleteEntry(r.Context(), key); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Key deleted"})
}

func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}

	result, err := s.store.Info(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Info)
}

// keyParam returns the unescaped key path parameter.
func keyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")

	// chi routes on the raw path when the request path carries escapes
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(key)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid key"})
			return "", false
		}
		key = unescaped
	}

	if strings.TrimSpace(key) == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Key is required"})
		return "", false
	}
	return key, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "storage request failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", w.Header().Get(RequestIDHeader)),
		slog.Any("error", err))
	writeJSON(w, http.StatusInternalServerError, Response{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "handling storage request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", w.Header().Get(RequestIDHeader)))
		next.ServeHTTP(w, r)
	})
}
