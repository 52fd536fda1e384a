package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Slack app credentials
	SlackBotToken  string
	SlackAppToken  string
	SlackBotUserID string

	// Google Cloud
	GoogleCloudProject string
	GCSBucket          string

	// Gemini summarization
	GeminiAPIKey string
	GeminiModel  string

	// Google Custom Search
	GoogleAPIKey   string
	SearchEngineID string

	// Chroma grounding index (optional)
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string

	// Free tier limits; a value <= 0 disables the corresponding limit
	FreeTierDailyLimit int
	FreeTierMaxDays    int

	// Decoding parameters for summarization calls
	SummarizationTemperature     float64
	SummarizationTopP            float64
	SummarizationTopK            int
	SummarizationMaxOutputTokens int

	// Outbound HTTP timeouts
	WebFetchTimeout time.Duration
	DownloadTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackAppToken:      getEnv("SLACK_APP_TOKEN", ""),
		SlackBotUserID:     getEnv("SLACK_BOT_USER_ID", ""),
		GoogleCloudProject: getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GCSBucket:          getEnv("GCS_BUCKET_NAME", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
		SearchEngineID:     getEnv("SEARCH_ENGINE_ID", ""),
		ChromaAPIKey:       getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:       getEnv("CHROMA_TENANT", ""),
		ChromaDatabase:     getEnv("CHROMA_DATABASE", ""),

		FreeTierDailyLimit: getEnvInt("FREE_TIER_DAILY_LIMIT", 100),
		FreeTierMaxDays:    getEnvInt("FREE_TIER_MAX_DAYS", 14),

		SummarizationTemperature:     getEnvFloat("SUMMARIZATION_TEMPERATURE", 0.7),
		SummarizationTopP:            getEnvFloat("SUMMARIZATION_TOP_P", 0.9),
		SummarizationTopK:            getEnvInt("SUMMARIZATION_TOP_K", 40),
		SummarizationMaxOutputTokens: getEnvInt("SUMMARIZATION_MAX_OUTPUT_TOKENS", 1000),

		WebFetchTimeout: getEnvDuration("WEB_FETCH_TIMEOUT", 5*time.Second),
		DownloadTimeout: getEnvDuration("DOWNLOAD_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
