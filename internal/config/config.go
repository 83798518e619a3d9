package config

import "os"

// Config holds the application configuration
// Note: This is a stateless configuration - no database needed. Session history
// lives in memory, scoped to the browser session cookie.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Generation API keys
	GeminiAPIKey string // Google Gemini API key (required at startup)
	OpenAIAPIKey string // OpenAI API key for GPT models (optional alternate backend)

	// Generation model
	GenerationModel string // e.g. gemini-2.0-flash-exp

	// Speech-to-text service (Whisper-compatible HTTP endpoint)
	SpeechAPIURL   string
	SpeechAPIKey   string
	SpeechModel    string
	SpeechLanguage string // language hint for recognition, e.g. "it"

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Session cookie signing secret
	SessionSecret string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GenerationModel:   getEnv("GENERATION_MODEL", "gemini-2.0-flash-exp"),
		SpeechAPIURL:      getEnv("SPEECH_API_URL", ""),
		SpeechAPIKey:      getEnv("SPEECH_API_KEY", ""),
		SpeechModel:       getEnv("SPEECH_MODEL", "whisper-1"),
		SpeechLanguage:    getEnv("SPEECH_LANGUAGE", "it"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		SessionSecret:     getEnv("SESSION_SECRET", "volumio-dev-secret"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
