package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

// maxImportSize caps import request bodies. Variable lists for a whole
// platform run to kilobytes; anything near this limit is not one.
const maxImportSize = 64 << 20

// Server holds the API server state
type Server struct {
	store   varstore.Store
	config  ServerConfig
	metrics *Metrics

	// revisions tracks a KSUID per variable, refreshed on every
	// successful write in this process.
	mu        sync.Mutex
	revisions map[varstore.Key]string
}

// NewServer creates a new API server
func NewServer(store varstore.Store, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:     store,
		config:    config,
		metrics:   metrics,
		revisions: make(map[varstore.Key]string),
	}
}

func (s *Server) newRevision(key varstore.Key) string {
	rev := ksuid.New().String()
	s.mu.Lock()
	s.revisions[key] = rev
	s.mu.Unlock()
	return rev
}

func (s *Server) revisionOf(key varstore.Key) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[key]
}

func (s *Server) dropRevision(key varstore.Key) {
	s.mu.Lock()
	delete(s.revisions, key)
	s.mu.Unlock()
}

// varParams extracts the {guid}/{name} route pair
func varParams(r *http.Request) (varlist.GUID, string, error) {
	guid, err := varlist.ParseGUID(chi.URLParam(r, "guid"))
	if err != nil {
		return varlist.GUID{}, "", fmt.Errorf("bad guid: %w", err)
	}
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return varlist.GUID{}, "", fmt.Errorf("bad variable name: %w", err)
	}
	if name == "" {
		return varlist.GUID{}, "", fmt.Errorf("variable name is required")
	}
	return guid, name, nil
}

// handleHealth reports service liveness and the active backend
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	backend := s.config.Backend
	if backend == "" {
		backend = "memory"
	}
	sendSuccess(w, map[string]string{"status": "healthy", "backend": backend})
}

// handleListVars lists every variable in the store without payloads
func (s *Server) handleListVars(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lister, ok := s.store.(varstore.Lister)
	if !ok {
		sendError(w, "Store backend cannot enumerate variables", http.StatusNotImplemented)
		return
	}

	keys, err := lister.List()
	if err != nil {
		s.metrics.RecordStoreOperation("list", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to list variables: %v", err), http.StatusInternalServerError)
		return
	}

	vars := make([]VariableInfo, 0, len(keys))
	for _, key := range keys {
		v, err := s.store.Get(key.GUID, key.Name)
		if err != nil {
			// The variable vanished between List and Get; skip it.
			continue
		}
		vars = append(vars, VariableInfo{
			GUID:       key.GUID.String(),
			Name:       key.Name,
			Attributes: v.Attributes,
			Size:       len(v.Data),
			Revision:   s.revisionOf(key),
		})
	}

	s.metrics.RecordStoreOperation("list", true, time.Since(start))
	s.metrics.UpdateVarCount(len(vars))
	sendSuccess(w, map[string]interface{}{"vars": vars, "count": len(vars)})
}

// handleGetVar returns one variable with its payload
func (s *Server) handleGetVar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	guid, name, err := varParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := s.store.Get(guid, name)
	if err != nil {
		s.metrics.RecordStoreOperation("get", false, time.Since(start))
		if errors.Is(err, varstore.ErrNotFound) {
			sendError(w, "Variable not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to get variable: %v", err), http.StatusInternalServerError)
		}
		return
	}

	s.metrics.RecordStoreOperation("get", true, time.Since(start))
	sendSuccess(w, VariableInfo{
		GUID:       guid.String(),
		Name:       name,
		Attributes: v.Attributes,
		Size:       len(v.Data),
		Data:       v.Data,
		Revision:   s.revisionOf(varstore.Key{GUID: guid, Name: name}),
	})
}

// handlePutVar creates or replaces one variable
func (s *Server) handlePutVar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	guid, name, err := varParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req VariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	v := varstore.Variable{Attributes: req.Attributes, Data: req.Data}
	if err := s.store.Set(guid, name, v); err != nil {
		s.metrics.RecordStoreOperation("set", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to set variable: %v", err), http.StatusInternalServerError)
		return
	}

	rev := s.newRevision(varstore.Key{GUID: guid, Name: name})
	s.metrics.RecordStoreOperation("set", true, time.Since(start))
	sendSuccess(w, map[string]string{"revision": rev})
}

// handleDeleteVar removes one variable
func (s *Server) handleDeleteVar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	guid, name, err := varParams(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.Delete(guid, name); err != nil {
		s.metrics.RecordStoreOperation("delete", false, time.Since(start))
		if errors.Is(err, varstore.ErrNotFound) {
			sendError(w, "Variable not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to delete variable: %v", err), http.StatusInternalServerError)
		}
		return
	}

	s.dropRevision(varstore.Key{GUID: guid, Name: name})
	s.metrics.RecordStoreOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "Variable deleted"})
}

// handleImport loads a raw variable list blob into the store. The blob
// must decode in full before anything is written.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	entries, err := varlist.DecodeAll(body)
	if err != nil {
		s.metrics.RecordImportFailure()
		sendError(w, fmt.Sprintf("Invalid variable list: %v", err), http.StatusBadRequest)
		return
	}

	for _, e := range entries {
		v := varstore.Variable{Attributes: e.Attributes, Data: e.Data}
		if err := s.store.Set(e.GUID, e.Name, v); err != nil {
			s.metrics.RecordStoreOperation("set", false, time.Since(start))
			sendError(w, fmt.Sprintf("Failed to store %q: %v", e.Name, err), http.StatusInternalServerError)
			return
		}
		s.newRevision(varstore.Key{GUID: e.GUID, Name: e.Name})
	}

	s.metrics.RecordImport(len(entries))
	s.metrics.RecordStoreOperation("import", true, time.Since(start))
	sendSuccess(w, map[string]int{"imported": len(entries)})
}

// handleExport streams the whole store as a variable list blob
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if _, ok := s.store.(varstore.Lister); !ok {
		sendError(w, "Store backend cannot enumerate variables", http.StatusNotImplemented)
		return
	}

	blob, err := varstore.ExportList(s.store)
	if err != nil {
		s.metrics.RecordStoreOperation("export", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to export variables: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordStoreOperation("export", true, time.Since(start))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(blob); err != nil {
		sendError(w, "Failed to write response", http.StatusInternalServerError)
		return
	}
}

// startMetricsUpdater refreshes the variable-count gauge in the
// background for backends that can enumerate.
func (s *Server) startMetricsUpdater() {
	lister, ok := s.store.(varstore.Lister)
	if !ok {
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if keys, err := lister.List(); err == nil {
			s.metrics.UpdateVarCount(len(keys))
		}
	}
}
