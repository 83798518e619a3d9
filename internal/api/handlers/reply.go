package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volumio-labs/volumio-api/internal/engine"
	"github.com/volumio-labs/volumio-api/internal/llm"
)

// ReplyHandler serves the short conversational replies.
type ReplyHandler struct {
	engine *engine.Engine
}

func NewReplyHandler(eng *engine.Engine) *ReplyHandler {
	return &ReplyHandler{engine: eng}
}

// ReplyRequest is the body for both reply endpoints.
type ReplyRequest struct {
	Text string `json:"text" binding:"required"`
}

// Reply returns a quick reply, served from cache when fresh.
func (h *ReplyHandler) Reply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.engine.QuickReply(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// ReplyStream streams the quick reply over SSE, one event per delta.
func (h *ReplyHandler) ReplyStream(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ ReplyStream: JSON binding error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set headers for SSE
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering
	c.Header("X-Request-ID", c.GetString("request_id"))
	c.Writer.Flush()

	streamCallback := func(event llm.StreamEvent) error {
		eventJSON, err := json.Marshal(event)
		if err != nil {
			log.Printf("❌ ReplyStream: failed to marshal event: %v", err)
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", eventJSON); err != nil {
			log.Printf("❌ ReplyStream: failed to write SSE event: %v", err)
			return err
		}
		c.Writer.Flush()
		return nil
	}

	reply := h.engine.QuickReplyStream(c.Request.Context(), req.Text, streamCallback)

	finalEvent := gin.H{
		"type":       "done",
		"request_id": c.GetString("request_id"),
		"reply":      reply,
	}
	eventJSON, _ := json.Marshal(finalEvent)
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", eventJSON)
	c.Writer.Flush()
}
