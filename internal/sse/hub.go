// Package sse fans session events out to Server-Sent Events clients.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/internal/audio"
	"github.com/robalobadob/colortab/internal/session"
)

// Event names written on the stream besides the session event kinds.
const (
	EventSound = "sound"
	EventHello = "hello"
)

// BufferSize is the per-client channel capacity.
const BufferSize = 64

// Message is one SSE frame.
type Message struct {
	Event string
	Data  string
}

// WriteTo writes the frame in text/event-stream format.
func (m Message) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Event, m.Data)
	return int64(n), err
}

// Hub broadcasts messages to every subscribed client of one session.
// Publishing never blocks: a client whose buffer is full misses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan Message]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan Message]struct{})}
}

// Subscribe registers a client. Call the returned function to unsubscribe.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, BufferSize)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
		})
	}
}

// Clients reports the number of subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends msg to all clients.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("event", msg.Event).Int("dropped", dropped).Msg("sse client buffer full")
	}
}

// PublishJSON encodes v and publishes it under event.
func (h *Hub) PublishJSON(event string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	h.Publish(Message{Event: event, Data: string(b)})
	return nil
}

// SessionEvent implements session.Listener.
func (h *Hub) SessionEvent(e session.Event) {
	if err := h.PublishJSON(string(e.Kind), e); err != nil {
		log.Warn().Err(err).Msg("publish session event")
	}
}

// Cue forwards an audio cue to the browser. Use it as audio.Cues.Send.
func (h *Hub) Cue(c audio.Cue) error {
	return h.PublishJSON(EventSound, c)
}
