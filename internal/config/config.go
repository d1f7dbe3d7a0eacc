// Package config loads process-wide settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider modes accepted by LLM_MODE. Auto tries every enabled provider
// in priority order; the others pin a single provider.
const (
	ModeAuto   = "auto"
	ModeLocal  = "local"
	ModeOpenAI = "openai"
	ModeGemini = "gemini"
)

type Config struct {
	// HTTP server
	Port        string
	FrontendURL string

	// Feed settings
	HTTPTimeout      time.Duration
	MaxNewsCount     int
	MaxSummaryTitles int
	RegionsPath      string

	// LLM settings
	LLMMode        string // auto | local | openai | gemini
	LLMTimeout     time.Duration
	LocalURL       string
	LocalModel     string
	OpenAIKey      string
	OpenAIModel    string
	GeminiKey      string
	GeminiModel    string
	MaxLLMRequests int // per provider per day, 0 = unlimited
	MaxLLMTotal    int // across providers per day, 0 = unlimited

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		HTTPTimeout:      time.Duration(getEnvIntOrDefault("HTTP_TIMEOUT_SECONDS", 20)) * time.Second,
		MaxNewsCount:     getEnvIntOrDefault("MAX_NEWS_COUNT", 15),
		MaxSummaryTitles: getEnvIntOrDefault("MAX_SUMMARY_TITLES", 10),
		RegionsPath:      os.Getenv("REGIONS_CONFIG_PATH"),
		LLMMode:          getEnvOrDefault("LLM_MODE", ModeAuto),
		LLMTimeout:       time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		LocalURL:         os.Getenv("LOCAL_LLM_URL"),
		LocalModel:       getEnvOrDefault("LOCAL_LLM_MODEL", "llama3.1"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		MaxLLMRequests:   getEnvIntOrDefault("MAX_LLM_REQUESTS_PER_PROVIDER", 0),
		MaxLLMTotal:      getEnvIntOrDefault("MAX_LLM_REQUESTS_TOTAL", 0),
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LocalEnabled reports whether a local inference server is configured.
func (c *Config) LocalEnabled() bool { return c.LocalURL != "" }

// OpenAIEnabled reports whether the OpenAI cloud provider is configured.
func (c *Config) OpenAIEnabled() bool { return c.OpenAIKey != "" }

// GeminiEnabled reports whether the Gemini cloud provider is configured.
func (c *Config) GeminiEnabled() bool { return c.GeminiKey != "" }

// Validate checks mode consistency. Running with no provider configured
// is allowed: the service still serves feeds and reports the missing
// summary through ai_error.
func (c *Config) Validate() error {
	switch c.LLMMode {
	case ModeAuto:
	case ModeLocal:
		if !c.LocalEnabled() {
			return fmt.Errorf("LLM_MODE=local requires LOCAL_LLM_URL")
		}
	case ModeOpenAI:
		if !c.OpenAIEnabled() {
			return fmt.Errorf("LLM_MODE=openai requires OPENAI_API_KEY")
		}
	case ModeGemini:
		if !c.GeminiEnabled() {
			return fmt.Errorf("LLM_MODE=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("LLM_MODE must be one of auto, local, openai, gemini (got %q)", c.LLMMode)
	}

	if c.MaxNewsCount <= 0 {
		return fmt.Errorf("MAX_NEWS_COUNT must be positive")
	}
	if c.MaxSummaryTitles <= 0 {
		return fmt.Errorf("MAX_SUMMARY_TITLES must be positive")
	}
	return nil
}
