package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected clients and broadcasts readings and
// alerts to them. An optional snapshot function provides the current
// active alerts sent to each newly connected client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	snapshot   func() interface{}
	mu         sync.RWMutex
}

func NewHub(snapshot func() interface{}) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		snapshot:   snapshot,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Websocket client registered: %s", client.Conn.RemoteAddr())
			h.sendSnapshot(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("Websocket client unregistered: %s", client.Conn.RemoteAddr())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// blocked or gone, drop it
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// BroadcastReading pushes an accepted sensor reading to all clients.
func (h *Hub) BroadcastReading(reading interface{}) {
	h.send("reading", reading)
}

// BroadcastAlert pushes a raised alert to all clients.
func (h *Hub) BroadcastAlert(alert interface{}) {
	h.send("alert", alert)
}

func (h *Hub) send(kind string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{"type": kind, "payload": payload})
	if err != nil {
		log.Printf("Error marshalling %s broadcast: %v", kind, err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("Websocket broadcast buffer full, dropping %s", kind)
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	if h.snapshot == nil {
		return
	}
	message, err := json.Marshal(map[string]interface{}{"type": "snapshot", "payload": h.snapshot()})
	if err != nil {
		log.Printf("Error marshalling snapshot: %v", err)
		return
	}
	select {
	case client.Send <- message:
	default:
	}
}
