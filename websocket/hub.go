package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types sent on the admin live feed
const (
	MessageAnswerSubmitted = "answer_submitted"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub    *Hub
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// Message is one frame of the live feed
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// AnswerEvent describes one accepted answer submission
type AnswerEvent struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	EmployeeID      uint   `json:"employee_id"`
	Username        string `json:"username"`
	QuestionIDs     []uint `json:"question_ids"`
}

// Hub fans out live feed messages to every connected admin. An admin may
// hold several connections.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Message
	Register   chan *Client
	Unregister chan *Client

	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 100),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Live feed client registered: admin %d", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Live feed client unregistered: admin %d", client.UserID)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			close(h.done)
			return
		}
	}
}

// Join registers the client. It returns false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters the client. It never blocks after the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Publish queues a message for broadcast without blocking the caller
func (h *Hub) Publish(messageType string, data interface{}) {
	message := &Message{Type: messageType, Timestamp: time.Now(), Data: data}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("⚠️ Live feed broadcast channel is full, dropping %s message", messageType)
	}
}

// broadcastMessage sends a message to all clients, dropping those whose
// send buffer is full
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
