package websocket

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event is one push notification to connected clients
type Event struct {
	Type      string `json:"type"`
	SectionID string `json:"sectionId,omitempty"`
	ReviewID  string `json:"reviewId,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

const (
	EventSectionFeedback = "section.feedback"
	EventReviewCompleted = "review.completed"
)

// Client is one connected browser tab
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// safeWriteJSON serializes writes so concurrent broadcasts cannot
// interleave on one connection
func (c *Client) safeWriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub broadcasts workspace events to every connected client so the UI
// learns about finished generation calls without polling
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and keeps the connection registered until
// the client goes away
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &Client{conn: conn}
	h.register(client)
	defer h.unregister(client)

	// Reads only detect disconnects; clients never send payloads here.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	log.Printf("Workspace client connected. Total clients: %d", len(h.clients))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.conn.Close()
	log.Printf("Workspace client disconnected. Total clients: %d", len(h.clients))
}

// Broadcast sends event to every connected client, dropping clients whose
// connection has failed
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.safeWriteJSON(event); err != nil {
			log.Printf("Error broadcasting event to client: %v", err)
			h.unregister(client)
		}
	}
}

// SectionFeedbackReady implements the services notifier
func (h *Hub) SectionFeedbackReady(sectionID string) {
	h.Broadcast(Event{
		Type:      EventSectionFeedback,
		SectionID: sectionID,
		Timestamp: time.Now().Unix(),
	})
}

// ReviewCompleted implements the services notifier
func (h *Hub) ReviewCompleted(reviewID string) {
	h.Broadcast(Event{
		Type:      EventReviewCompleted,
		ReviewID:  reviewID,
		Timestamp: time.Now().Unix(),
	})
}
