package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"trackforge/core/library"
	"trackforge/logger"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts library lifecycle events to every connected websocket
// client. Slow clients are dropped rather than allowed to block the
// analysis pipeline.
type Hub struct {
	clients    map[*websocket.Conn]chan library.Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan library.Event
	done       chan struct{}
}

// NewHub creates an event hub; call Run in a goroutine before use.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]chan library.Event),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan library.Event, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client map; all mutation happens on this goroutine. It
// exits when Close is called, tearing down every client connection.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for conn, ch := range h.clients {
				close(ch)
				conn.Close()
				delete(h.clients, conn)
			}
			return
		case conn := <-h.register:
			ch := make(chan library.Event, 16)
			h.clients[conn] = ch
			go writePump(conn, ch)
		case conn := <-h.unregister:
			if ch, ok := h.clients[conn]; ok {
				close(ch)
				delete(h.clients, conn)
			}
		case event := <-h.events:
			for conn, ch := range h.clients {
				select {
				case ch <- event:
				default:
					close(ch)
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Close stops the hub and disconnects all clients. Safe to call once.
func (h *Hub) Close() {
	close(h.done)
}

// Broadcast queues an event for delivery to all clients. Never blocks;
// events are dropped if the hub's buffer is full or the hub is closed.
func (h *Hub) Broadcast(event library.Event) {
	select {
	case h.events <- event:
	default:
	}
}

// ServeWS upgrades the request and streams events until the client
// disconnects or the hub shuts down.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Reader loop only watches for disconnect; clients send nothing.
	go func() {
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.unregister <- conn:
				case <-h.done:
				}
				return
			}
		}
	}()
}

func writePump(conn *websocket.Conn, events <-chan library.Event) {
	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			logger.Warn("websocket write failed", logger.ErrorField(err))
			return
		}
	}
}
