package bootstrap

import (
	"context"
	"log"
	"time"

	"mentor-chat-be/internal/config"
	"mentor-chat-be/internal/controller"
	"mentor-chat-be/internal/pkg/logger"
	"mentor-chat-be/internal/repository/implementation"
	"mentor-chat-be/internal/repository/redisstore"
	"mentor-chat-be/internal/service"
	"mentor-chat-be/pkg/embedding"
	"mentor-chat-be/pkg/llm/factory"
	"mentor-chat-be/pkg/persona"
	"mentor-chat-be/pkg/voice"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	VoiceController controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Logger (Exposed for main.go to Sync on shutdown)
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Redis
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.Redis.URL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Stores
	ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
	turnStore := redisstore.NewTurnStore(rdb, int64(cfg.Redis.MaxTurns), ttl)
	stateStore := redisstore.NewStateStore(rdb, ttl)
	factRepo := implementation.NewFactRepository(db)

	// 6. Services
	personaLoader := persona.NewLoader(cfg.Chat.PersonasDir)
	factService := service.NewFactService(factRepo, embeddingProvider)
	publisherService := service.NewPublisherService(cfg.Chat.FactTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.FactTopicName,
		llmProvider,
		factService,
		sysLogger,
	)

	chatService := service.NewChatService(
		turnStore,
		stateStore,
		factService,
		llmProvider,
		personaLoader,
		publisherService,
		sysLogger,
		cfg.Chat.DefaultPersona,
		cfg.Chat.DefaultMode,
	)

	voiceClient := voice.NewElevenLabsClient(
		cfg.Voice.ElevenLabsAPIKey,
		cfg.Voice.STTModel,
		cfg.Voice.TTSModel,
		cfg.Voice.VoiceID,
	)
	voiceService := service.NewVoiceService(voiceClient)

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		VoiceController: controller.NewVoiceController(voiceService),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

// llmBaseURL picks the base URL matching the configured provider.
func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
