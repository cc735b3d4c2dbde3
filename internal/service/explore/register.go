package explore

import (
	"github.com/labstack/echo/v4"

	"github.com/oggyb/matchmaker/internal/app"
)

// Registrar ties the Explore service into the HTTP API
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Explore service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Explore routes to the authenticated /v1 group
func (r *Registrar) Register(g *echo.Group) {
	h := NewHandler(NewExploreService(r.appCtx))

	g.GET("/feed", h.GetFeed)
	g.POST("/swipes", h.PostSwipe)
	g.GET("/likes", h.ListLikes)
	g.GET("/likes/count", h.CountLikes)
}
