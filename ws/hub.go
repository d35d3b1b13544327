package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub giữ các kết nối thông báo theo từng userID,
// một user có thể mở nhiều tab/thiết bị cùng lúc
type Hub struct {
	Clients map[string]map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

var H = Hub{
	Clients: make(map[string]map[*websocket.Conn]*Client),
}

// Register kết nối mới cho userID
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[userID]; !ok {
		h.Clients[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[userID][conn] = client

	go h.readPump(userID, conn)
	go h.writePump(userID, conn)
}

// Unregister client theo userID
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, userID)
		}
	}
}

// BroadcastToUser gửi message tới mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// SendBadgeUpdate gửi số thông báo chưa đọc cho user
func SendBadgeUpdate(userID string, unreadCount int64) {
	payload := map[string]interface{}{
		"type":         "badge_update",
		"unread_count": unreadCount,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, websocket.TextMessage, data)
}

// GetStats trả về số user và số kết nối đang mở
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	connections := 0
	for _, clients := range h.Clients {
		connections += len(clients)
	}
	return map[string]int{
		"users":       len(h.Clients),
		"connections": connections,
	}
}

func (h *Hub) readPump(userID string, conn *websocket.Conn) {
	defer h.Unregister(userID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(userID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.Clients[userID][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}

	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
