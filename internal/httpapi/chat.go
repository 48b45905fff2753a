package httpapi

import (
	"net/http"
	"time"

	"github.com/antoniostano/taskdeck/internal/protocol"
	"github.com/antoniostano/taskdeck/internal/tasks"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response     string       `json:"response"`
	TasksUpdated bool         `json:"tasks_updated"`
	TaskData     []tasks.Task `json:"task_data,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s.metrics.ChatMessages.WithLabelValues("http").Inc()
	reply := s.agent.Respond(r.Context(), req.Message)

	var taskData []tasks.Task
	if reply.Task != nil {
		taskData = []tasks.Task{*reply.Task}
	}
	if reply.TasksChanged {
		s.broadcast(protocol.NewTasksUpdated(taskData))
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Response:     reply.Text,
		TasksUpdated: reply.TasksChanged,
		TaskData:     taskData,
		Timestamp:    time.Now().UTC(),
	})
}
