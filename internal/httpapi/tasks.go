package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/antoniostano/taskdeck/internal/protocol"
	"github.com/antoniostano/taskdeck/internal/tasks"
)

const maxListLimit = 500

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter tasks.Filter
	if raw := strings.TrimSpace(q.Get("completed")); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "completed must be a boolean")
			return
		}
		filter.Completed = &completed
	}
	if raw := strings.TrimSpace(q.Get("priority")); raw != "" {
		priority := tasks.Priority(raw)
		if !priority.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_request", "priority must be one of low, medium, high")
			return
		}
		filter.Priority = priority
	}
	filter.Category = strings.TrimSpace(q.Get("category"))
	filter.Search = strings.TrimSpace(q.Get("search"))

	skip, err := queryInt(q.Get("skip"), 0)
	if err != nil || skip < 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(q.Get("limit"), tasks.DefaultListLimit)
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := s.service.List(r.Context(), filter, skip, limit)
	if err != nil {
		s.respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req tasks.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, err := s.service.Create(r.Context(), req)
	if err != nil {
		s.respondTaskError(w, err)
		return
	}

	s.broadcast(protocol.NewTaskCreated(task))
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_task_id", "missing task id")
		return
	}

	task, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_task_id", "missing task id")
		return
	}

	var req tasks.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, err := s.service.Update(r.Context(), id, req)
	if err != nil {
		s.respondTaskError(w, err)
		return
	}

	s.broadcast(protocol.NewTaskUpdated(task))
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_task_id", "missing task id")
		return
	}

	found, err := s.service.Delete(r.Context(), id)
	if err != nil {
		s.respondTaskError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "task_not_found", "Task not found")
		return
	}

	s.broadcast(protocol.NewTaskDeleted(id))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// broadcast fans the event out to every live connection; delivery failures are
// contained inside the registry and never reach the triggering request.
func (s *Server) broadcast(msg any) {
	delivered := s.registry.Broadcast(msg)
	s.metrics.BroadcastEvents.WithLabelValues("delivered").Add(float64(delivered))
}

func queryInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
