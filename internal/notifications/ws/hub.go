package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Message is the status-change payload pushed to connected clients
type Message struct {
	Type       string    `json:"type"`
	ShipmentID string    `json:"shipment_id"`
	CompanyID  string    `json:"company_id"`
	Status     string    `json:"status"`
	Color      string    `json:"color"`
	Actor      string    `json:"actor"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

const MessageShipmentUpdated = "shipment_updated"

// Client is one connected websocket consumer
type Client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Hub fans shipment updates out to connected clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	hub := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the portal frontend origin once it is pinned down
				return true
			},
		},
		logger: logger,
	}
	go hub.run()
	return hub
}

// ShipmentUpdated implements the shipment service's broadcaster hook
func (h *Hub) ShipmentUpdated(shipment *workflow.Shipment, entry workflow.HistoryEntry) {
	msg := Message{
		Type:       MessageShipmentUpdated,
		ShipmentID: shipment.ID.String(),
		CompanyID:  shipment.CompanyID.String(),
		Status:     entry.State,
		Color:      workflow.ColorFor(entry.State),
		Actor:      entry.Actor,
		Role:       string(entry.Role),
		Action:     entry.Action,
		Timestamp:  entry.Timestamp,
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast channel full, dropping shipment update",
			zap.String("shipment_id", msg.ShipmentID))
	}
}

// HandleConnection upgrades an HTTP request and registers the client
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, 64),
	}
	h.register <- client

	go h.readPump(client)
	go h.writePump(client)
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	close(h.stop)
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("Websocket client connected", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				client.conn.Close()
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Consumers are read-only; drain until close
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("Websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
