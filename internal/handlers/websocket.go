package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/moride/moride-backend/internal/services"
)

// ChatWebSocket upgrades the request and hands it to the chat hub.
// Token validation happens after the upgrade so clients only ever
// observe a closed socket on auth failure.
func ChatWebSocket(hub *services.ChatHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.HandleChatSocket(hub, c.Writer, c.Request)
	}
}
