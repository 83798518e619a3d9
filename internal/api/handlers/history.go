package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volumio-labs/volumio-api/internal/api/middleware"
	"github.com/volumio-labs/volumio-api/internal/history"
)

// HistoryHandler exposes the recent interactions of the calling session.
type HistoryHandler struct {
	history *history.Store
}

func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{history: store}
}

// GetHistory returns the retained interactions for the session, oldest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	interactions := h.history.ForSession(sessionID).Recent()

	c.JSON(http.StatusOK, gin.H{
		"interactions": interactions,
		"count":        len(interactions),
	})
}
