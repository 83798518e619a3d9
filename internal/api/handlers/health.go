package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volumio-labs/volumio-api/internal/config"
)

// HealthHandler reports service liveness and which backends are configured.
type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	speechStatus := "disabled"
	if h.cfg.SpeechAPIKey != "" {
		speechStatus = "enabled"
	}
	openaiStatus := "disabled"
	if h.cfg.OpenAIAPIKey != "" {
		openaiStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"environment": h.cfg.Environment,
		"model":       h.cfg.GenerationModel,
		"speech": gin.H{
			"status":   speechStatus,
			"language": h.cfg.SpeechLanguage,
		},
		"providers": gin.H{
			"gemini": "enabled",
			"openai": openaiStatus,
		},
	})
}
