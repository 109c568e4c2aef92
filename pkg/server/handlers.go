package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

// stateDTO is the wire form of an AsyncValue snapshot, shared by the
// REST handlers and the WebSocket push.
type stateDTO struct {
	State string      `json:"state"`
	Items []todo.Item `json:"items,omitempty"`
	Error string      `json:"error,omitempty"`
}

// snapshotDTO converts a cell snapshot to its wire form.
func snapshotDTO(v cell.AsyncValue[[]todo.Item]) stateDTO {
	dto := stateDTO{State: stateLabel(v)}
	if items, ok := v.Value(); ok {
		dto.Items = items
	}
	if err := v.Error(); err != nil {
		dto.Error = err.Error()
	}
	return dto
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// handleGetTodos returns the current cell snapshot.
func (s *Server) handleGetTodos(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, snapshotDTO(s.ctrl.Cell().Peek()))
}

// addRequest is the body of POST /api/todos.
type addRequest struct {
	Title string `json:"title"`
}

// handleAddTodo appends an item and returns the settled snapshot.
func (s *Server) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	err := s.metrics.timeMutation("add", func() error {
		return s.ctrl.Add(r.Context(), req.Title)
	})
	if err != nil {
		s.log.Error("add failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, snapshotDTO(s.ctrl.Cell().Peek()))
}

// handleRemoveLast drops the last item, honoring the one-element guard.
func (s *Server) handleRemoveLast(w http.ResponseWriter, r *http.Request) {
	err := s.metrics.timeMutation("remove_last", func() error {
		return s.ctrl.RemoveLast(r.Context())
	})
	if err != nil {
		s.log.Error("remove last failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, snapshotDTO(s.ctrl.Cell().Peek()))
}

// handleRefresh re-runs the loader.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.metrics.timeMutation("refresh", func() error {
		return s.ctrl.Refresh(r.Context())
	})
	if err != nil {
		s.log.Error("refresh failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, snapshotDTO(s.ctrl.Cell().Peek()))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
