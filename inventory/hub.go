package inventory

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans low-stock alerts out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (s *Service) Register(conn *websocket.Conn) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.clients[conn] = true
}

func (s *Service) Unregister(conn *websocket.Conn) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	delete(s.hub.clients, conn)
}

// Broadcast pushes an alert batch to every client. Call it after the
// mutating transaction commits; alerts from rolled-back transactions
// must never reach subscribers. Dead connections are dropped.
func (s *Service) Broadcast(alerts []Alert) {
	if len(alerts) == 0 {
		return
	}
	data, err := json.Marshal(alerts)
	if err != nil {
		return
	}

	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	for conn := range s.hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(s.hub.clients, conn)
		}
	}
}
