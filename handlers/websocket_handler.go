package handlers

import (
	"log"
	"net/http"
	"net/url"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/scouting-system/realtime"
	"github.com/Dosada05/scouting-system/services"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler разрешает подключения только с перечисленных origin; "*" снимает проверку.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// ServeDuplicates подписывает экран администратора на события разрешения групп.
func (h *WebSocketHandler) ServeDuplicates(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту
		log.Printf("Failed to upgrade duplicates connection for %s: %v", adminID, err)
		return
	}

	h.hub.Register(realtime.NewClient(h.hub, conn, services.DuplicatesRoom, adminID))
}
