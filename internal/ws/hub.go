package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks the active websocket clients per user and pushes server-side
// events (new messages) to them. The REST API remains the source of truth;
// the hub only notifies.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	clients     map[*Client]bool
	userClients map[string][]*Client
	mu          sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		userClients: make(map[string][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.mu.Lock()
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.drop(client)
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.userClients[client.UserID]
	for i, c := range conns {
		if c == client {
			h.userClients[client.UserID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
}

// Notify pushes an event to every open connection of a user. Users without a
// connection simply miss the push; they pick the data up over REST.
func (h *Hub) Notify(userID string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}

	h.mu.Lock()
	conns := append([]*Client(nil), h.userClients[userID]...)
	h.mu.Unlock()

	for _, c := range conns {
		select {
		case c.Send <- b:
		default:
			// Slow consumer; drop the connection rather than block.
			h.Unregister <- c
		}
	}
}
