package httpapi

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/antoniostano/taskdeck/internal/hub"
	"github.com/antoniostano/taskdeck/internal/protocol"
	"github.com/antoniostano/taskdeck/internal/tasks"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsMaxMessageSize = 64 * 1024
)

// wsSender serializes writes to a single websocket connection. gorilla permits
// at most one concurrent writer, and both the session loop and broadcasts from
// other requests write to the same socket.
type wsSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSender) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sender := &wsSender{conn: conn}
	client := s.registry.Register(sender)
	s.metrics.ActiveConnections.Inc()
	log.Printf("websocket connected: %s", client.ID)

	defer func() {
		// A broadcast may have evicted the connection already; only the call
		// that wins the removal adjusts the gauge.
		if s.registry.Unregister(client) {
			s.metrics.ActiveConnections.Dec()
		}
		conn.Close()
		log.Printf("websocket disconnected: %s", client.ID)
	}()

	conn.SetReadLimit(wsMaxMessageSize)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %s: %v", client.ID, err)
			}
			return
		}

		msg, err := protocol.ParseClientMessage(raw)
		if err != nil {
			// A bad frame does not end the session.
			if errors.Is(err, protocol.ErrUnsupportedType) {
				s.metrics.WSMessages.WithLabelValues("in", "unsupported").Inc()
			} else {
				s.metrics.WSMessages.WithLabelValues("in", "malformed").Inc()
			}
			continue
		}

		switch frame := msg.(type) {
		case protocol.ChatMessage:
			s.metrics.WSMessages.WithLabelValues("in", string(protocol.TypeChat)).Inc()
			s.metrics.ChatMessages.WithLabelValues("ws").Inc()
			if !s.handleChatFrame(r, client, frame) {
				return
			}
		case protocol.Ping:
			s.metrics.WSMessages.WithLabelValues("in", string(protocol.TypePing)).Inc()
			if err := s.registry.SendTo(client, protocol.NewPong()); err != nil {
				return
			}
			s.metrics.WSMessages.WithLabelValues("out", string(protocol.TypePong)).Inc()
		}
	}
}

// handleChatFrame runs one chat turn. The direct reply goes only to the asking
// connection; task mutations additionally fan out to every client. Returns
// false when the session should end.
func (s *Server) handleChatFrame(r *http.Request, client *hub.Connection, frame protocol.ChatMessage) bool {
	reply := s.agent.Respond(r.Context(), frame.Message)

	var taskData []tasks.Task
	if reply.Task != nil {
		taskData = []tasks.Task{*reply.Task}
	}

	resp := protocol.NewChatResponse(reply.Text, reply.TasksChanged, taskData)
	if err := s.registry.SendTo(client, resp); err != nil {
		log.Printf("websocket send failed: %v", err)
		return false
	}
	s.metrics.WSMessages.WithLabelValues("out", string(protocol.TypeChatResponse)).Inc()

	if reply.TasksChanged {
		s.broadcast(protocol.NewTasksUpdated(taskData))
	}
	return true
}
