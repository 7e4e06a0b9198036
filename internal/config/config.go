package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	LogLevel        string
	Provider        string
	Model           string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Concurrency     int
	BatchSize       int
	MaxUploadBytes  int64
}

// Load reads an optional .env file from the working directory, then the
// environment. Values already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            envInt("TILAWA_PORT", 8080),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		Provider:        envStr("TILAWA_PROVIDER", "gemini"),
		Model:           envStr("TILAWA_MODEL", ""),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		Concurrency:     envInt("TILAWA_CONCURRENCY", 3),
		BatchSize:       envInt("TILAWA_BATCH_SIZE", 50),
		MaxUploadBytes:  int64(envInt("TILAWA_MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// APIKey returns the configured key for a translation provider name.
func (c Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
