package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ai       AIConfig
	Voice    VoiceConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type RedisConfig struct {
	URL        string
	TTLSeconds int
	MaxTurns   int
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	OpenAIBaseURL     string
	OpenAIAPIKey      string
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
}

type VoiceConfig struct {
	ElevenLabsAPIKey string
	STTModel         string
	TTSModel         string
	VoiceID          string
}

type ChatConfig struct {
	PersonasDir    string
	DefaultPersona string
	DefaultMode    string
	FactTopicName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", "redis://localhost:6379"),
			TTLSeconds: getEnvAsInt("REDIS_TTL_SECONDS", 43200),
			MaxTurns:   getEnvAsInt("REDIS_MAX_TURNS", 12),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Voice: VoiceConfig{
			ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
			STTModel:         getEnv("ELEVENLABS_STT_MODEL", "scribe_v1"),
			TTSModel:         getEnv("ELEVENLABS_TTS_MODEL", "eleven_multilingual_v2"),
			VoiceID:          getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		},
		Chat: ChatConfig{
			PersonasDir:    getEnv("PERSONAS_DIR", "personas"),
			DefaultPersona: getEnv("DEFAULT_PERSONA", "saint-paul"),
			DefaultMode:    getEnv("DEFAULT_MODE", "friend"),
			FactTopicName:  getEnv("FACT_EXTRACTION_TOPIC_NAME", "EXTRACT_ADVICE_FACT"),
		},
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
