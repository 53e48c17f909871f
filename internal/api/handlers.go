package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fakeyudi/snipt/internal/snippet"
)

// snippetPayload is the add/update request body.
type snippetPayload struct {
	Shortcut string `json:"shortcut"`
	Snippet  string `json:"snippet"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, success("snipt API is running"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, failure(fmt.Sprintf("failed to load snippets: %v", err)))
		return
	}
	if entries == nil {
		entries = []snippet.Entry{}
	}
	writeJSON(w, http.StatusOK, success(entries))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	shortcut := r.URL.Query().Get("shortcut")
	if shortcut == "" {
		writeJSON(w, http.StatusBadRequest, failure("shortcut query parameter is required"))
		return
	}

	entry, err := s.Store.Get(shortcut)
	switch {
	case errors.Is(err, snippet.ErrNotFound):
		// A miss is not an error: data is null.
		writeJSON(w, http.StatusOK, success(nil))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, failure(fmt.Sprintf("failed to load snippets: %v", err)))
	default:
		writeJSON(w, http.StatusOK, success(entry))
	}
}

func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request) (snippetPayload, bool) {
	var p snippetPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, failure(fmt.Sprintf("malformed request body: %v", err)))
		return p, false
	}
	if p.Shortcut == "" {
		writeJSON(w, http.StatusBadRequest, failure("shortcut is required"))
		return p, false
	}
	return p, true
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	p, valid := s.decodePayload(w, r)
	if !valid {
		return
	}

	err := s.Store.Add(p.Shortcut, p.Snippet)
	switch {
	case errors.Is(err, snippet.ErrCollision):
		writeJSON(w, http.StatusConflict, failure(err.Error()))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, failure(fmt.Sprintf("failed to add snippet: %v", err)))
	default:
		s.Log.Info("snippet added", "shortcut", p.Shortcut)
		writeJSON(w, http.StatusOK, success(nil))
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p, valid := s.decodePayload(w, r)
	if !valid {
		return
	}

	err := s.Store.Update(p.Shortcut, p.Snippet)
	switch {
	case errors.Is(err, snippet.ErrNotFound):
		writeJSON(w, http.StatusNotFound, failure(err.Error()))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, failure(fmt.Sprintf("failed to update snippet: %v", err)))
	default:
		s.Log.Info("snippet updated", "shortcut", p.Shortcut)
		writeJSON(w, http.StatusOK, success(nil))
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	shortcut := r.URL.Query().Get("shortcut")
	if shortcut == "" {
		writeJSON(w, http.StatusBadRequest, failure("shortcut query parameter is required"))
		return
	}

	err := s.Store.Delete(shortcut)
	switch {
	case errors.Is(err, snippet.ErrNotFound):
		writeJSON(w, http.StatusNotFound, failure(err.Error()))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, failure(fmt.Sprintf("failed to delete snippet: %v", err)))
	default:
		s.Log.Info("snippet deleted", "shortcut", shortcut)
		writeJSON(w, http.StatusOK, success(nil))
	}
}

func (s *Server) handleDaemonStatus(w http.ResponseWriter, r *http.Request) {
	running, _ := s.Probe()
	writeJSON(w, http.StatusOK, success(running))
}

// daemonDetails is the shape of /api/daemon/details.
type daemonDetails struct {
	Running    bool       `json:"running"`
	Pid        int        `json:"pid"`
	ConfigPath string     `json:"config_path"`
	APIServer  apiDetails `json:"api_server"`
}

type apiDetails struct {
	Port int    `json:"port"`
	URL  string `json:"url"`
}

func (s *Server) handleDaemonDetails(w http.ResponseWriter, r *http.Request) {
	running, pid := s.Probe()
	writeJSON(w, http.StatusOK, success(daemonDetails{
		Running:    running,
		Pid:        pid,
		ConfigPath: s.Store.Path(),
		APIServer: apiDetails{
			Port: s.port,
			URL:  fmt.Sprintf("http://127.0.0.1:%d", s.port),
		},
	}))
}
