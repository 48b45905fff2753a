package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/antoniostano/taskdeck/internal/tasks"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeChat         MessageType = "chat"
	TypePing         MessageType = "ping"
	TypeChatResponse MessageType = "chat_response"
	TypePong         MessageType = "pong"
	TypeTasksUpdated MessageType = "tasks_updated"
	TypeTaskCreated  MessageType = "task_created"
	TypeTaskUpdated  MessageType = "task_updated"
	TypeTaskDeleted  MessageType = "task_deleted"
)

// ErrUnsupportedType marks a well-formed frame of a type this service does not
// handle; the session loop ignores such frames silently.
var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ChatMessage is the inbound chat frame.
type ChatMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// Ping is the inbound connection health probe.
type Ping struct {
	Type MessageType `json:"type"`
}

type ChatResponse struct {
	Type         MessageType `json:"type"`
	Response     string      `json:"response"`
	TasksUpdated bool        `json:"tasks_updated"`
	TaskData     []tasks.Task `json:"task_data,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

type Pong struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// TasksUpdated is broadcast after a chat interaction mutated the task list.
type TasksUpdated struct {
	Type      MessageType  `json:"type"`
	Data      []tasks.Task `json:"data"`
	Timestamp time.Time    `json:"timestamp"`
}

// TaskCreated and TaskUpdated carry the full record; TaskDeleted only the id.
type TaskCreated struct {
	Type MessageType `json:"type"`
	Task tasks.Task  `json:"task"`
}

type TaskUpdated struct {
	Type MessageType `json:"type"`
	Task tasks.Task  `json:"task"`
}

type TaskDeleted struct {
	Type   MessageType `json:"type"`
	TaskID string      `json:"task_id"`
}

func NewChatResponse(response string, tasksUpdated bool, taskData []tasks.Task) ChatResponse {
	return ChatResponse{
		Type:         TypeChatResponse,
		Response:     response,
		TasksUpdated: tasksUpdated,
		TaskData:     taskData,
		Timestamp:    time.Now().UTC(),
	}
}

func NewPong() Pong {
	return Pong{Type: TypePong, Timestamp: time.Now().UTC()}
}

func NewTasksUpdated(data []tasks.Task) TasksUpdated {
	return TasksUpdated{Type: TypeTasksUpdated, Data: data, Timestamp: time.Now().UTC()}
}

func NewTaskCreated(task tasks.Task) TaskCreated {
	return TaskCreated{Type: TypeTaskCreated, Task: task}
}

func NewTaskUpdated(task tasks.Task) TaskUpdated {
	return TaskUpdated{Type: TypeTaskUpdated, Task: task}
}

func NewTaskDeleted(taskID string) TaskDeleted {
	return TaskDeleted{Type: TypeTaskDeleted, TaskID: taskID}
}

// ParseClientMessage decodes an inbound frame. Malformed JSON yields a wrapped
// envelope error; known-but-invalid frames yield a validation error; unknown
// types yield ErrUnsupportedType.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeChat:
		var msg ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypePing:
		return Ping{Type: TypePing}, nil
	default:
		return nil, ErrUnsupportedType
	}
}
