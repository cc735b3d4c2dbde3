package explore

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oggyb/matchmaker/internal/auth"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

// Handler adapts Service to HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetFeed handles GET /v1/feed?cursor=&limit=
func (h *Handler) GetFeed(c echo.Context) error {
	limit := pagination.ClampLimit(c.QueryParam("limit"))
	page, err := h.svc.GetFeed(c.Request().Context(), auth.UserID(c), c.QueryParam("cursor"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

type swipeRequest struct {
	TargetUserID string `json:"targetUserId"`
	Direction    string `json:"direction"`
}

// PostSwipe handles POST /v1/swipes
func (h *Handler) PostSwipe(c echo.Context) error {
	var req swipeRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("request body must be JSON")
	}
	if err := h.svc.RecordSwipe(c.Request().Context(), auth.UserID(c), req.TargetUserID, req.Direction); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ListLikes handles GET /v1/likes
func (h *Handler) ListLikes(c echo.Context) error {
	likes, err := h.svc.ListLikes(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes})
}

// CountLikes handles GET /v1/likes/count
func (h *Handler) CountLikes(c echo.Context) error {
	n, err := h.svc.CountLikes(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}
