package chat

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/matchmaker/internal/app"
)

// Registrar ties the Chat service into the HTTP API
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Chat routes to the authenticated /v1 group
func (r *Registrar) Register(g *echo.Group) {
	h := NewHandler(NewChatService(r.appCtx))

	g.GET("/chats", h.ListChats)
	g.GET("/chats/:matchId/messages", h.ListMessages)
	g.POST("/chats/:matchId/messages", h.SendMessage)
}
