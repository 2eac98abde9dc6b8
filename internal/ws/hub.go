package ws

import (
	"encoding/json"
	"sync"
)

// Client is one admin browser tab connected to the feed.
type Client struct {
	SessionID string
	Send      chan []byte
	hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func NewClient(sessionID string) *Client {
	return &Client{SessionID: sessionID, Send: make(chan []byte, 64)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast marshals payload once and offers it to every client. Slow
// clients whose buffer is full miss the message.
func (h *Hub) Broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.offer(data)
	}
}

func (c *Client) offer(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
