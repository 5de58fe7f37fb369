package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// SlotEvent tells connected clients that a grid slot changed hands, so they
// can refresh availability for the affected date without polling.
type SlotEvent struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Booked    bool   `json:"booked"`
}

var clients = make(map[*websocket.Conn]bool)
var clientsMu sync.RWMutex
var Register = make(chan *websocket.Conn)
var Unregister = make(chan *websocket.Conn)
var Broadcast = make(chan SlotEvent, 16)

func RunHub() {
	for {
		select {
		case conn := <-Register:
			clientsMu.Lock()
			clients[conn] = true
			clientsMu.Unlock()
			log.Printf("Slot-update client connected (%d total)", clientCount())
		case conn := <-Unregister:
			clientsMu.Lock()
			delete(clients, conn)
			clientsMu.Unlock()
			log.Printf("Slot-update client disconnected (%d total)", clientCount())
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending slot event: %v", err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()
			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

func clientCount() int {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	return len(clients)
}

// Handler keeps a connection registered for slot events until the peer goes
// away. Nothing the client sends is interpreted.
func Handler(conn *websocket.Conn) {
	Register <- conn
	defer func() {
		Unregister <- conn
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
