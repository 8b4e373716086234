package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Discord
	DiscordBotToken   string
	ReminderChannelID string // channel for daily task reminders and user reminders
	ReportChannelID   string // channel for evening shift reports

	// AI
	LiteLLMURL     string
	ModelID        string
	OpenAIAPIKey   string
	EmbeddingModel string

	// Google Sheets
	GoogleCredentialsPath string

	// SQLite
	SQLitePath string

	// Neo4j (knowledge base)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Schedule (hours in the deployment's local timezone)
	BaselineHour   int // morning snapshot capture
	ReportHour     int // evening shift report
	ReminderHour   int // daily task reminder
	ReminderMinute int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		DiscordBotToken:       getEnv("DISCORD_BOT_TOKEN", ""),
		ReminderChannelID:     getEnv("REMINDER_CHANNEL_ID", ""),
		ReportChannelID:       getEnv("REPORT_CHANNEL_ID", ""),
		LiteLLMURL:            getEnv("LITELLM_URL", "http://localhost:4000"),
		ModelID:               getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:        getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "google_credentials.json"),
		SQLitePath:            getEnv("SQLITE_PATH", "shiftbot.db"),
		Neo4jURI:              getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:             getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:         getEnv("NEO4J_PASSWORD", "password"),
		BaselineHour:          getEnvInt("BASELINE_HOUR", 8),
		ReportHour:            getEnvInt("REPORT_HOUR", 23),
		ReminderHour:          getEnvInt("REMINDER_HOUR", 10),
		ReminderMinute:        getEnvInt("REMINDER_MINUTE", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.LiteLLMURL == "" {
		return fmt.Errorf("LITELLM_URL is required")
	}
	if c.ModelID == "" {
		return fmt.Errorf("MODEL_ID is required")
	}
	if c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required")
	}
	if c.BaselineHour < 0 || c.BaselineHour > 23 {
		return fmt.Errorf("BASELINE_HOUR must be between 0 and 23")
	}
	if c.ReportHour < 0 || c.ReportHour > 23 {
		return fmt.Errorf("REPORT_HOUR must be between 0 and 23")
	}
	// Discord token and Neo4j credentials are optional for development
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
