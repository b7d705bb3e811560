package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// queued frames per watcher; a watcher that falls further behind is dropped
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the client is gone or its queue is full.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump is the only writer on the connection.
func (c *client) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Hub fans booking status events out to every socket watching a booking code.
type Hub struct {
	watchers map[string]map[*client]struct{}
	mutex    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		watchers: make(map[string]map[*client]struct{}),
	}
}

// register adds a watcher whose queue already holds initial, so it is sent before any
// broadcast.
func (h *Hub) register(code string, conn *websocket.Conn, initial []byte) *client {
	c := newClient(conn)
	if initial != nil {
		c.enqueue(initial)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.watchers[code]
	if !ok {
		set = make(map[*client]struct{})
		h.watchers[code] = set
	}
	set[c] = struct{}{}
	return c
}

func (h *Hub) unregister(code string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	c.shutdown()
	set, ok := h.watchers[code]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.watchers, code)
	}
}

// Broadcast queues message for all watchers of code and returns how many accepted it.
// It does not wait for the network; watchers with a full queue are disconnected.
func (h *Hub) Broadcast(code string, message interface{}) int {
	h.mutex.RLock()
	targets := make([]*client, 0, len(h.watchers[code]))
	for c := range h.watchers[code] {
		targets = append(targets, c)
	}
	h.mutex.RUnlock()

	if len(targets) == 0 {
		return 0
	}
	data, err := json.Marshal(message)
	if err != nil {
		return 0
	}

	delivered := 0
	for _, c := range targets {
		if !c.enqueue(data) {
			h.unregister(code, c)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) WatcherCount(code string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.watchers[code])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for code, set := range h.watchers {
		for c := range set {
			c.shutdown()
		}
		delete(h.watchers, code)
	}
}
