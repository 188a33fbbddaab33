package chatws

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

// Hub fans conversation events out to every connected client of a user, so
// an assistant reply shows up on all of the user's open sessions.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
}

type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	email string
	send  chan []byte
}

// Event is one assistant reply pushed to a user's clients.
type Event struct {
	Type          string             `json:"type"`
	Email         string             `json:"-"`
	AssistantType string             `json:"assistant_type"`
	Message       models.ChatMessage `json:"message"`
	Timestamp     string             `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, email string) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		email: strings.ToLower(email),
		send:  make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.email]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.email] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.email]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.email)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues an assistant message for delivery to every client connected
// as the given user. Never blocks the caller.
func (h *Hub) Publish(email, assistantType string, message models.ChatMessage) {
	event := &Event{
		Type:          "assistant_message",
		Email:         strings.ToLower(email),
		AssistantType: assistantType,
		Message:       message,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("chat hub: broadcast queue full, dropping event for %s", email)
	}
}

func (h *Hub) deliver(event *Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("chat hub encode event: %v", err)
		return
	}

	set, ok := h.clients[event.Email]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- encoded:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.Email)
	}
}

// ReadPump keeps the connection registered until the peer goes away. Inbound
// frames are ignored; sends happen over the HTTP API.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
