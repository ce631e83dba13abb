package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Keys         APIKeys
	Ai           AIConfig
	Conversation ConversationConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "gemini" or "huggingface"
	LLMModel      string
	OllamaBaseURL string
	LLMBaseURL    string // override for huggingface-compatible endpoints
	Timeout       time.Duration
	PromptsDir    string
}

type ConversationConfig struct {
	DefaultLanguage string
	HistoryLimit    int
	LockTTL         time.Duration
	EventTopic      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm_conversation.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3:8b"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
			Timeout:       time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
			PromptsDir:    getEnv("PROMPTS_DIR", ""),
		},
		Conversation: ConversationConfig{
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "es"),
			HistoryLimit:    getEnvAsInt("HISTORY_LIMIT", 14),
			LockTTL:         time.Duration(getEnvAsInt("CONVERSATION_LOCK_SECONDS", 120)) * time.Second,
			EventTopic:      getEnv("CONVERSATION_EVENT_TOPIC", "CONVERSATION_EVENTS"),
		},
	}
}

// LLMEndpoint is the base URL handed to the selected provider.
func (c AIConfig) LLMEndpoint() string {
	if c.LLMProvider == "ollama" || c.LLMProvider == "" {
		return c.OllamaBaseURL
	}
	return c.LLMBaseURL
}

// LLMAPIKey picks the key matching the selected provider.
func (c *Config) LLMAPIKey() string {
	switch c.Ai.LLMProvider {
	case "gemini":
		return c.Keys.GoogleGemini
	case "huggingface":
		return c.Keys.HuggingFace
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
