// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"solagire-dashboard/internal/data"
)

// Message types pushed to clients.
const (
	TypeSnapshot = "snapshot"
	TypeAlert    = "alert"
)

// Message is the envelope of every frame sent to a client.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	log        *slog.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			close(client.Send)
			delete(h.clients, client)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Info("websocket client registered", "remote", client.remote())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.log.Info("websocket client unregistered", "remote", client.remote())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.log.Warn("websocket client send buffer full, removing", "remote", client.remote())
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// RegisterClient adds a client. It returns false if the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastSnapshot pushes a refreshed snapshot to all clients.
func (h *Hub) BroadcastSnapshot(snap *data.Snapshot) {
	h.send(Message{Type: TypeSnapshot, Payload: snap})
}

// BroadcastAlert pushes a single alert to all clients.
func (h *Hub) BroadcastAlert(alert data.Alert) {
	h.send(Message{Type: TypeAlert, Payload: alert})
}

func (h *Hub) send(msg Message) {
	b, err := Encode(msg)
	if err != nil {
		h.log.Error("marshalling broadcast", "type", msg.Type, "err", err)
		return
	}
	select {
	case h.broadcast <- b:
	case <-h.done:
	}
}

// Encode serialises a message envelope.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
