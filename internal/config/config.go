package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server ServerConfig
	AI     AIConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port            string
	Mode            string // gin mode: debug, release, test
	ShutdownTimeout time.Duration
}

// AIConfig - 생성형 AI 서비스 설정 (API 키는 로그/응답에 절대 노출하지 않음)
type AIConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

func Load() Config {
	provider := strings.ToLower(getenv("AI_PROVIDER", ProviderOpenAI))

	return Config{
		Server: ServerConfig{
			Port:            getenv("PORT", "8080"),
			Mode:            getenv("GIN_MODE", "release"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		AI: AIConfig{
			Provider:    provider,
			APIKey:      getenv("AI_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:       getenv("AI_MODEL", defaultModel(provider)),
			BaseURL:     os.Getenv("AI_BASE_URL"),
			Timeout:     getDuration("AI_TIMEOUT", 60*time.Second),
			Temperature: float32(getFloat("AI_TEMPERATURE", 0.7)),
			MaxTokens:   getInt("AI_MAX_TOKENS", 1000),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
		},
	}
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "gpt-3.5-turbo"
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 32); err == nil {
		return f
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return b
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
