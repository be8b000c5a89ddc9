// Package realtime pushes order and table events to connected admin panels
// over websockets. Delivery is best effort; a dropped client simply misses
// the event and refetches on reconnect.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/utils"
)

const (
	EventOrderCreate     = "order_create"
	EventOrderUpdate     = "order_update"
	EventTableUpdate     = "table_update"
	EventTableReset      = "table_reset"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var adminHub = hub{
	clients: make(map[*websocket.Conn]bool),
}

func RegisterClient(conn *websocket.Conn) {
	adminHub.mutex.Lock()
	defer adminHub.mutex.Unlock()
	adminHub.clients[conn] = true
}

func UnregisterClient(conn *websocket.Conn) {
	adminHub.mutex.Lock()
	defer adminHub.mutex.Unlock()
	delete(adminHub.clients, conn)
	conn.Close()
}

func BroadcastOrderCreate(order models.Order) {
	broadcast(Message{Event: EventOrderCreate, Data: order})
}

func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableReset tells open admin panels that a table turned over and
// how many open orders the reset voided.
func BroadcastTableReset(table models.Table, cancelledOrders int64) {
	broadcast(Message{
		Event: EventTableReset,
		Data: map[string]interface{}{
			"table":            table,
			"cancelled_orders": cancelledOrders,
		},
	})
}

func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

func broadcast(msg Message) {
	adminHub.mutex.Lock()
	defer adminHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal realtime message: %v", err)
		return
	}

	for conn := range adminHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("write to realtime client: %v", err)
		}
	}
}
