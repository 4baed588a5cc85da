package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	RapidAPIKey  string
	RapidAPIHost string

	LLMProvider     string
	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTemperature  float64
	LLMMaxTokens    int

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	AdapterTimeout time.Duration
	HTTPTimeout    time.Duration
	MaxRetries     int
	UseBrowser     bool
	ChromeBin      string
	SingleFlight   bool

	CORSOrigins []string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RapidAPIKey:  getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost: getEnv("RAPIDAPI_HOST", "real-time-amazon-data.p.rapidapi.com"),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		LLMTemperature:  getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 300),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdapterTimeout: getEnvDuration("ADAPTER_TIMEOUT", 8*time.Second),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		MaxRetries:     getEnvInt("MAX_RETRIES", 1),
		UseBrowser:     getEnvBool("SCRAPER_USE_BROWSER", false),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		SingleFlight:   getEnvBool("SEARCH_SINGLE_FLIGHT", true),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
