package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/franchise-portal/internal/metrics"
	"github.com/ikkim/franchise-portal/pkg/logger"
)

// Event types pushed to the admin console
const (
	EventApplicationCreated = "application.created"
	EventApplicationStatus  = "application.status"
	EventApplicationDeleted = "application.deleted"
	EventProposalCreated    = "proposal.created"
)

// Event is one message on the admin feed
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is what services use to emit events
type Publisher interface {
	Publish(eventType string, data interface{})
}

// Client is one admin console connection
type Client struct {
	Hub       *Hub
	Conn      *Conn
	AccountID uint
	Send      chan []byte
}

// NewClient wraps an upgraded connection
func NewClient(hub *Hub, conn *Conn, accountID uint) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		AccountID: accountID,
		Send:      make(chan []byte, 256),
	}
}

// Hub fans events out to every connected admin
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// done is closed when Run returns; Register and Unregister stop
	// waiting on the channels after that.
	done    chan struct{}
	stopMu  sync.RWMutex
	stopped bool

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 1024),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done. Every client is disconnected on exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			logger.Info("WebSocket client registered", map[string]interface{}{
				"account_id": client.AccountID,
				"clients":    total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"account_id": client.AccountID,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.stopMu.Lock()
	h.stopped = true
	h.stopMu.Unlock()

	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()

	// clients queued but never picked up
	for {
		select {
		case client := <-h.register:
			close(client.Send)
		default:
			metrics.WebsocketClients.Set(0)
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.Send)
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebsocketClients.Set(float64(total))
	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"account_id": client.AccountID,
		"clients":    total,
	})
}

// Publish queues an event for every client. Events are dropped when the
// broadcast buffer is full.
func (h *Hub) Publish(eventType string, data interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
}

// Register adds client to the hub. Once the hub has stopped the client's
// Send channel is closed straight away.
func (h *Hub) Register(client *Client) {
	h.stopMu.RLock()
	defer h.stopMu.RUnlock()
	if h.stopped {
		close(client.Send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
