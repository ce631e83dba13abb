package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"requirements-assistant-be/internal/config"
	"requirements-assistant-be/internal/controller"
	"requirements-assistant-be/internal/metrics"
	"requirements-assistant-be/internal/pkg/logger"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/internal/service"
	"requirements-assistant-be/pkg/conversation"
	"requirements-assistant-be/pkg/llm"
	"requirements-assistant-be/pkg/llm/factory"
	"requirements-assistant-be/pkg/lock"
	pktNats "requirements-assistant-be/pkg/nats"
	"requirements-assistant-be/pkg/prompt"
	"requirements-assistant-be/pkg/requirement"
)

type Container struct {
	// Controllers
	ChatMessageController  controller.IChatMessageController
	StateMachineController controller.IStateMachineController
	RequirementController  controller.IRequirementController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	eventLogger := logger.NewIsolatedLogger("logs/events.log")

	convMetrics, err := metrics.NewConversationMetrics()
	if err != nil {
		log.Printf("[WARN] Failed to create conversation metrics: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM
	baseProvider, err := factory.NewLLMProvider(context.Background(), factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMEndpoint(),
		APIKey:   cfg.LLMAPIKey(),
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	llmProvider := llm.NewInstrumentedProvider(
		baseProvider,
		logger.NewLLMTraceLogger(cfg.App.LLMLogFilePath),
		convMetrics,
	)

	catalog, err := prompt.LoadCatalog()
	if err != nil {
		log.Fatalf("[FATAL] Failed to load message catalog: %v", err)
	}

	// 4. Infrastructure
	// NATS
	var sink service.EventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		sink = natsPub
	}

	// Redis
	projectLock := newProjectLock(cfg)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Conversation.EventTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Conversation.EventTopic,
		sink,
		eventLogger,
	)

	engine := &service.ConversationEngine{
		UowFactory:      uowFactory,
		LLM:             llmProvider,
		Renderer:        prompt.NewRenderer(cfg.Ai.PromptsDir),
		Catalog:         catalog,
		Contexts:        conversation.NewContextBuilder(cfg.Conversation.HistoryLimit),
		Mutator:         requirement.NewMutator(),
		Lock:            projectLock,
		Publisher:       publisherService,
		Metrics:         convMetrics,
		Logger:          sysLogger,
		DefaultLanguage: cfg.Conversation.DefaultLanguage,
	}

	conversationService := service.NewConversationService(engine)
	requirementService := service.NewRequirementService(engine)

	// 6. Controllers
	c := &Container{
		ChatMessageController:  controller.NewChatMessageController(conversationService),
		StateMachineController: controller.NewStateMachineController(conversationService),
		RequirementController:  controller.NewRequirementController(requirementService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}

	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	if closer, ok := baseProvider.(interface{ Close() error }); ok {
		c.closers = append(c.closers, func() { _ = closer.Close() })
	}
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	return c
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// newProjectLock prefers Redis and falls back to an in-process lock when the
// server cannot be reached.
func newProjectLock(cfg *config.Config) lock.ProjectLock {
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory project lock", err)
		_ = rdb.Close()
		return lock.NewMemoryLock(cfg.Conversation.LockTTL)
	}
	return lock.NewRedisLock(rdb, cfg.Conversation.LockTTL)
}
