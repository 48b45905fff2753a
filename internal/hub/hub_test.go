package hub

import (
	"errors"
	"sync"
	"testing"
)

type fakeSender struct {
	mu       sync.Mutex
	received []any
	fail     bool
}

func (s *fakeSender) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broken pipe")
	}
	s.received = append(s.received, v)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

func TestRegisterAndBroadcast(t *testing.T) {
	r := NewRegistry()
	a := &fakeSender{}
	b := &fakeSender{}
	r.Register(a)
	r.Register(b)

	if got := r.Broadcast("hello"); got != 2 {
		t.Fatalf("Broadcast() delivered = %d, want 2", got)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Fatalf("deliveries = (%d, %d), want (1, 1)", a.count(), b.count())
	}
}

func TestBroadcastEvictsFailingConnection(t *testing.T) {
	r := NewRegistry()
	senders := []*fakeSender{{}, {fail: true}, {}}
	conns := make([]*Connection, len(senders))
	for i, s := range senders {
		conns[i] = r.Register(s)
	}

	var evicted []*Connection
	r.SetEvictHook(func(c *Connection) { evicted = append(evicted, c) })

	if got := r.Broadcast("msg"); got != 2 {
		t.Fatalf("Broadcast() delivered = %d, want 2", got)
	}
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 after eviction", r.Count())
	}
	if len(evicted) != 1 || evicted[0] != conns[1] {
		t.Fatalf("evicted = %v, want exactly the failing connection", evicted)
	}
	if conns[1].Status() != StatusClosed {
		t.Fatalf("evicted connection status = %q, want %q", conns[1].Status(), StatusClosed)
	}

	// Healthy connections still receive everything.
	if senders[0].count() != 1 || senders[2].count() != 1 {
		t.Fatalf("healthy deliveries = (%d, %d), want (1, 1)", senders[0].count(), senders[2].count())
	}
}

func TestBroadcastToEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.Broadcast("msg"); got != 0 {
		t.Fatalf("Broadcast() delivered = %d, want 0", got)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c := r.Register(&fakeSender{})

	if !r.Unregister(c) {
		t.Fatalf("Unregister() = false, want true on first removal")
	}
	if r.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", r.Count())
	}
	if r.Unregister(c) { // second call is a no-op
		t.Fatalf("Unregister() = true on repeated call, want false")
	}
	r.Unregister(nil)
	if r.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after repeated unregister", r.Count())
	}
}

func TestSendToDoesNotAutoEvict(t *testing.T) {
	r := NewRegistry()
	s := &fakeSender{fail: true}
	c := r.Register(s)

	if err := r.SendTo(c, "direct"); err == nil {
		t.Fatalf("SendTo() expected error from broken sender")
	}
	// Point-to-point failure leaves eviction to the caller.
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}
}

func TestConcurrentRegisterBroadcastUnregister(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := r.Register(&fakeSender{})
			r.Broadcast("msg")
			r.Unregister(c)
			r.Unregister(c)
		}()
	}
	wg.Wait()
	if r.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after all goroutines unregistered", r.Count())
	}
}
