package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
)

// Event is one pipeline change pushed to every connected client
type Event struct {
	Type     string          `json:"type"`
	Business *model.Business `json:"business"`
	At       time.Time       `json:"at"`
}

// Client is one connected feed subscriber
type Client struct {
	Hub       *Hub
	Conn      *Conn
	AccountID uint
	Send      chan []byte
}

// Hub fans pipeline events out to all connected clients. The feed is
// write-only: client messages are read and discarded to keep the
// connection's control frames flowing.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes registrations and broadcasts. Call once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Event feed client connected", map[string]interface{}{
				"account_id":    client.AccountID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Event feed client disconnected", map[string]interface{}{
				"account_id":    client.AccountID,
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow client, drop it rather than block the feed
					go h.Unregister(client)
					logger.Warn("Event feed client send buffer full, disconnecting", map[string]interface{}{
						"account_id": client.AccountID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PublishBusinessEvent serializes a pipeline event and queues it for every
// connected client. Implements the business service's publisher.
func (h *Hub) PublishBusinessEvent(eventType string, business *model.Business) {
	event := Event{
		Type:     eventType,
		Business: business,
		At:       time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal pipeline event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Event feed broadcast buffer full, dropping event", map[string]interface{}{
			"type": eventType,
		})
	}
}
