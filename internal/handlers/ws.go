package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/types"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

var (
	workspaceClients   = make(map[uint]map[*websocket.Conn]bool)
	workspaceClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// StartEventBroadcast forwards every domain event to the websocket
// clients watching its workspace. Admin dashboards use this to refresh
// without polling.
func StartEventBroadcast(bus *domain.Bus) {
	bus.Subscribe(BroadcastEvent)
}

func BroadcastEvent(e domain.Event) {
	workspaceClientsMu.RLock()
	clients, exists := workspaceClients[e.WorkspaceID]
	if !exists || len(clients) == 0 {
		workspaceClientsMu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing to sockets
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	workspaceClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(e); err != nil {
			log.Printf("Failed to broadcast event to client: %v", err)
			unregisterClient(e.WorkspaceID, conn)
			conn.Close()
		}
	}
}

func registerClient(workspaceID uint, conn *websocket.Conn) {
	workspaceClientsMu.Lock()
	if workspaceClients[workspaceID] == nil {
		workspaceClients[workspaceID] = make(map[*websocket.Conn]bool)
	}
	workspaceClients[workspaceID][conn] = true
	workspaceClientsMu.Unlock()
}

func unregisterClient(workspaceID uint, conn *websocket.Conn) {
	workspaceClientsMu.Lock()

	if clients, exists := workspaceClients[workspaceID]; exists {
		delete(clients, conn)

		if len(clients) == 0 {
			delete(workspaceClients, workspaceID)
		}
	}

	workspaceClientsMu.Unlock()
}

func WebSocket(c *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	registerClient(workspaceID, conn)

	defer func() {
		unregisterClient(workspaceID, conn)
		conn.Close()

		log.Printf("WebSocket connection closed for workspace %d", workspaceID)
	}()

	err = conn.WriteJSON(map[string]any{
		"type":         "connected",
		"message":      "WebSocket connection established",
		"workspace_id": workspaceID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		// Send pings periodically
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for workspace %d: %v", workspaceID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for workspace %d: %v", workspaceID, err)
				return
			}
		}
	}()

	// Clients only listen; the read loop exists to notice disconnects
	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for workspace %d: %v", workspaceID, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for workspace %d: %v", workspaceID, err)
			}
			break
		}
	}
}
