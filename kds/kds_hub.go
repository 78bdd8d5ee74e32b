package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// Event types
const (
	EventOrderUpdate   = "order_update"
	EventLineItemAdded = "line_item_added"
	EventInventoryLow  = "inventory_low"
)

// Message is one kitchen feed frame. Closed marks an order that reached a
// terminal status so displays can drop its ticket.
type Message struct {
	Event  string      `json:"event"`
	Data   interface{} `json:"data"`
	Closed bool        `json:"closed,omitempty"`
}

// Hub holds the connected kitchen display clients (conn -> role).
// A nil *Hub is valid and drops every message.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister removes the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) BroadcastOrderUpdate(order models.Order) {
	h.Broadcast(Message{Event: EventOrderUpdate, Data: order, Closed: order.Status.Terminal()})
}

func (h *Hub) BroadcastLineItemAdded(detail models.OrderDetail) {
	h.Broadcast(Message{Event: EventLineItemAdded, Data: detail})
}

func (h *Hub) BroadcastInventoryLow(resources []models.Resource) {
	h.Broadcast(Message{Event: EventInventoryLow, Data: resources})
}

// Broadcast sends msg to every client. Clients that fail a write are dropped.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling kitchen message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("Broadcasting kitchen message")

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{"role": role}).WithError(err).Error("Error sending message to client")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
