/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/phuonguno98/unodash/internal/render"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 4
)

// Message types exchanged over the websocket.
const (
	MessageFrame  = "frame"
	MessageSelect = "select"
	MessageError  = "error"
)

// ServerMessage is pushed to clients.
type ServerMessage struct {
	Type    string        `json:"type"`
	Frame   *render.Frame `json:"frame,omitempty"`
	Message string        `json:"message,omitempty"`
}

// ClientMessage is sent by clients. Cores holds 1-based labels such as "3".
type ClientMessage struct {
	Type  string   `json:"type"`
	Cores []string `json:"cores"`
}

// FrameFunc builds a frame for the given core selection.
type FrameFunc func(selected []int) render.Frame

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	selected []int
}

func (c *client) selection() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *client) setSelection(cores []int) {
	c.mu.Lock()
	c.selected = cores
	c.mu.Unlock()
}

// Hub tracks websocket clients and pushes a frame to each one per tick.
// Every client keeps its own core selection.
type Hub struct {
	frame    FrameFunc
	cores    func() int
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// NewHub creates a hub. cores reports the number of selectable cores.
func NewHub(frame FrameFunc, cores func() int, logger *slog.Logger) *Hub {
	return &Hub{
		frame:  frame,
		cores:  cores,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// Run broadcasts a frame for every sample received until ctx is done or samples is closed.
func (h *Hub) Run(ctx context.Context, samples <-chan *metrics.Sample) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case _, ok := <-samples:
			if !ok {
				h.closeAll()
				return
			}
			h.Broadcast()
		}
	}
}

// Broadcast queues a fresh frame for every client. A client whose queue is full skips the frame.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.queueFrame(c)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:       uuid.New().String(),
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		selected: render.AllCores(h.cores()),
	}
	h.register(c)
	h.logger.Debug("Websocket client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writePump(c)
	h.queueFrame(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// unregister removes c and closes its queue once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) queueFrame(c *client) {
	frame := h.frame(c.selection())
	data, err := json.Marshal(ServerMessage{Type: MessageFrame, Frame: &frame})
	if err != nil {
		h.logger.Error("Failed to encode frame", "error", err)
		return
	}
	h.queue(c, data)
}

func (h *Hub) queue(c *client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Debug("Websocket client is slow, frame skipped", "client", c.id)
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Debug("Websocket client disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Websocket read failed", "client", c.id, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(c, "invalid message")
			continue
		}

		switch msg.Type {
		case MessageSelect:
			c.setSelection(render.ParseCores(msg.Cores, h.cores()))
			h.queueFrame(c)
		default:
			h.sendError(c, "unknown message type: "+msg.Type)
		}
	}
}

func (h *Hub) sendError(c *client, message string) {
	data, err := json.Marshal(ServerMessage{Type: MessageError, Message: message})
	if err != nil {
		return
	}
	h.queue(c, data)
}

// writePump is the only writer of c.conn.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
