package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider. Bearer tokens are HS256 JWTs signed with
	// AuthJWTSecret; when AuthIssuer is set the iss claim must match.
	AuthJWTSecret string
	AuthIssuer    string

	// PipelineAPIKey guards the scheduler-facing endpoints. Empty disables them.
	PipelineAPIKey string

	// RolloverOnList materializes due scheduled transactions whenever the
	// owner lists them.
	RolloverOnList bool

	DisplayCurrency string

	// Chat assistant
	GeminiAPIKey     string
	ChatModel        string
	ChatSystemPrompt string

	// Event publishing. Empty AMQPURL disables it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

const defaultChatSystemPrompt = "You are a helpful personal finance assistant. " +
	"Answer questions about the user's accounts, budgets and spending clearly and briefly. " +
	"Amounts are in the user's display currency."

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "budgetly"),
		DBPassword: getEnv("DB_PASSWORD", "budgetly"),
		DBName:     getEnv("DB_NAME", "budgetly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", "fallback-secret-key-for-dev-only"),
		AuthIssuer:    getEnv("AUTH_ISSUER", ""),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),
		RolloverOnList: getBool("ROLLOVER_ON_LIST", true),

		DisplayCurrency: strings.ToUpper(getEnv("DISPLAY_CURRENCY", "USD")),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		ChatModel:        getEnv("CHAT_MODEL", "gemini-2.0-flash"),
		ChatSystemPrompt: getEnv("CHAT_SYSTEM_PROMPT", defaultChatSystemPrompt),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetly"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions.materialized"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBool parses a boolean environment variable, keeping the default on
// missing or malformed values.
func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
