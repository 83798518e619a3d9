package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/volumio-labs/volumio-api/internal/api/middleware"
	"github.com/volumio-labs/volumio-api/internal/engine"
	"github.com/volumio-labs/volumio-api/internal/history"
	"github.com/volumio-labs/volumio-api/internal/metrics"
	"github.com/volumio-labs/volumio-api/internal/models"
	"github.com/volumio-labs/volumio-api/internal/speech"
)

const maxAudioBytes = 10 << 20 // 10 MB upload cap

// AnalyzeHandler drives the full voice pipeline: audio upload, transcription,
// analysis, session history.
type AnalyzeHandler struct {
	engine      *engine.Engine
	transcriber *speech.Transcriber
	history     *history.Store
	metrics     *metrics.Client
}

func NewAnalyzeHandler(eng *engine.Engine, transcriber *speech.Transcriber, store *history.Store, cw *metrics.Client) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine:      eng,
		transcriber: transcriber,
		history:     store,
		metrics:     cw,
	}
}

// AnalyzeTextRequest is the body for the text-only entry point.
type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Analyze handles a multipart audio upload. Transcription failures short-
// circuit with 422 and the diagnostic text; the analysis itself cannot fail.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		log.Printf("❌ Analyze: missing audio file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		log.Printf("❌ Analyze: failed to read upload %q: %v", header.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio upload"})
		return
	}

	start := time.Now()
	result := h.transcriber.Process(c.Request.Context(), audio)
	if h.metrics != nil {
		h.metrics.RecordTranscription(time.Since(start), result.Succeeded)
	}
	if !result.Succeeded {
		log.Printf("⚠️ Analyze: transcription failed: %s", result.Text)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Text})
		return
	}

	log.Printf("📨 Analyze: transcript length=%d", len(result.Text))
	h.respond(c, "voice", result.Text)
}

// AnalyzeText runs the same analysis on caller-supplied text, skipping
// transcription.
func (h *AnalyzeHandler) AnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.ToLower(strings.TrimSpace(req.Text))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}

	h.respond(c, "text", text)
}

func (h *AnalyzeHandler) respond(c *gin.Context, inputType, text string) {
	rec := h.engine.Analyze(c.Request.Context(), text)

	sessionID := c.GetString(middleware.ContextSessionID)
	if sessionID != "" {
		h.history.ForSession(sessionID).Append(models.Interaction{
			Type:   inputType,
			Input:  text,
			Output: rec,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript":     text,
		"recommendation": rec,
	})
}
