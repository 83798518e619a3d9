package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/volumio-labs/volumio-api/internal/api"
	"github.com/volumio-labs/volumio-api/internal/catalog"
	"github.com/volumio-labs/volumio-api/internal/config"
	"github.com/volumio-labs/volumio-api/internal/engine"
	"github.com/volumio-labs/volumio-api/internal/history"
	"github.com/volumio-labs/volumio-api/internal/llm"
	"github.com/volumio-labs/volumio-api/internal/metrics"
	"github.com/volumio-labs/volumio-api/internal/observability"
	"github.com/volumio-labs/volumio-api/internal/prompt"
	"github.com/volumio-labs/volumio-api/internal/speech"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// The default generation backend cannot run without a key
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "volumio-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	// Initialize Langfuse LLM observability
	observability.InitializeLangfuse(ctx, cfg)

	// Initialize CloudWatch metrics (no-op outside production)
	cwMetrics, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}

	// Generation provider for the configured model
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.GenerationModel, "")
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize generation provider:", err)
	}
	log.Printf("🤖 Generation provider: %s (model: %s)", provider.Name(), cfg.GenerationModel)

	// Recommendation engine over the fixed category catalog
	cat := catalog.Default()
	eng := engine.New(provider, prompt.NewBuilder(cat), cat, cfg.GenerationModel, cwMetrics)

	// Speech-to-text pipeline
	recognizer := speech.NewWhisperRecognizer(speech.WhisperConfig{
		APIKey:  cfg.SpeechAPIKey,
		BaseURL: cfg.SpeechAPIURL,
		Model:   cfg.SpeechModel,
	})
	transcriber := speech.NewTranscriber(recognizer, cfg.SpeechLanguage)

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		Config:      cfg,
		Engine:      eng,
		Transcriber: transcriber,
		History:     history.NewStore(history.DefaultLimit),
		Metrics:     cwMetrics,
	})

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
