package chat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oggyb/matchmaker/internal/auth"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
)

// Handler adapts Service to HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListChats handles GET /v1/chats
func (h *Handler) ListChats(c echo.Context) error {
	chats, err := h.svc.ListChats(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"chats": chats})
}

// ListMessages handles GET /v1/chats/:matchId/messages
func (h *Handler) ListMessages(c echo.Context) error {
	msgs, err := h.svc.ListMessages(c.Request().Context(), auth.UserID(c), c.Param("matchId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

type sendRequest struct {
	Text string `json:"text"`
}

// SendMessage handles POST /v1/chats/:matchId/messages
func (h *Handler) SendMessage(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return svcErr.InvalidInput("request body must be JSON")
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), auth.UserID(c), c.Param("matchId"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}
