// Package hub tracks live realtime connections and fans task events out to
// them. The registry is the only shared mutable state touched by every inbound
// request; all membership changes go through the mutex, and broadcasts iterate
// a snapshot so register/unregister can race an in-flight fan-out safely.
package hub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Sender delivers one message to one client. Implementations own their write
// serialization and deadlines; a returned error means the connection is broken.
type Sender interface {
	WriteJSON(v any) error
}

// Connection is an opaque handle for a registered client. It is owned by the
// Registry for its lifetime; Closed is terminal.
type Connection struct {
	ID     string
	sender Sender
	closed atomic.Bool
}

func (c *Connection) Status() Status {
	if c.closed.Load() {
		return StatusClosed
	}
	return StatusOpen
}

type Registry struct {
	mu      sync.Mutex
	conns   []*Connection
	onEvict func(*Connection)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetEvictHook installs a callback invoked (outside the lock) for every
// connection the registry evicts during a broadcast.
func (r *Registry) SetEvictHook(hook func(*Connection)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = hook
}

// Register adds a connection whose transport handshake has already succeeded.
func (r *Registry) Register(sender Sender) *Connection {
	c := &Connection{
		ID:     uuid.NewString(),
		sender: sender,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, c)
	return c
}

// Unregister removes the connection if present; calling it again is a no-op.
// Reports whether this call removed it, so bookkeeping tied to membership
// (gauges, logs) runs exactly once even when a broadcast eviction raced it.
func (r *Registry) Unregister(c *Connection) bool {
	if c == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(c)
}

func (r *Registry) remove(c *Connection) bool {
	for i, existing := range r.conns {
		if existing == c {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			c.closed.Store(true)
			return true
		}
	}
	return false
}

// SendTo delivers to exactly one connection. On failure the caller decides
// whether to unregister; point-to-point errors do not auto-evict.
func (r *Registry) SendTo(c *Connection, msg any) error {
	return c.sender.WriteJSON(msg)
}

// Broadcast delivers best-effort to a snapshot of the membership taken at call
// start. Connections that fail to receive are removed from the live set as
// part of the same call; the snapshot itself is never mutated mid-iteration.
// Returns the number of successful deliveries.
func (r *Registry) Broadcast(msg any) int {
	r.mu.Lock()
	snapshot := make([]*Connection, len(r.conns))
	copy(snapshot, r.conns)
	r.mu.Unlock()

	delivered := 0
	for _, c := range snapshot {
		if err := c.sender.WriteJSON(msg); err != nil {
			r.mu.Lock()
			removed := r.remove(c)
			hook := r.onEvict
			r.mu.Unlock()
			if removed && hook != nil {
				hook(c)
			}
			continue
		}
		delivered++
	}
	return delivered
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
