package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"leadfunnel/entity"
	"leadfunnel/internal/lib/sl"
)

const (
	EventLead    = "lead"
	EventOutcome = "outcome"
)

// Event is one message on the operator feed.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans lead events out to every connected operator.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("feed")),
	}
}

// Run is the hub event loop; it returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("operator connected", slog.String("operator", client.operator))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.With(sl.Err(err)).Error("marshal feed event")
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// slow reader, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected operators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) publish(e *Event) {
	select {
	case h.broadcast <- e:
	default:
		h.log.Warn("feed buffer full, event dropped", slog.String("type", e.Type))
	}
}

// BroadcastLead sends an accepted lead to every operator.
func (h *Hub) BroadcastLead(ev entity.LeadEvent) {
	h.publish(&Event{Type: EventLead, Data: ev})
}

// BroadcastOutcome sends a finished questionnaire summary.
func (h *Hub) BroadcastOutcome(o entity.DialogOutcome) {
	h.publish(&Event{Type: EventOutcome, Data: o})
}
