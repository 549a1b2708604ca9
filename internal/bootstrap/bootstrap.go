package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/config"
	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/core/ports"
	"github.com/kirillkom/ticket-analyzer/internal/core/usecase"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/dedup"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/anthropic"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/huggingface"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Store ports.TicketStore
	Queue ports.MessageQueue

	ClassifyUC ports.TicketClassifier
	ProcessUC  ports.TicketProcessor
	IntakeUC   ports.TicketIntake
	QueryUC    ports.TicketReader

	closeFn func()
}

// New wires the application. recorder may be nil.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder ports.ClassificationRecorder) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	generator, err := NewTextGenerator(cfg, resilience.NewExecutor(LLMResilienceConfig(cfg)))
	if err != nil {
		return nil, fmt.Errorf("init text generator: %w", err)
	}

	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewTicketRepository(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifyUC := usecase.NewClassifyTicketUseCase(generator, domain.GenerationOptions{
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}, recorder)
	processUC := usecase.NewProcessTicketUseCase(classifyUC, store)

	logger.Info("bootstrap_complete",
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.Model(),
		"nats_subject", cfg.NATSSubject,
	)

	return &App{
		Config: cfg,
		Store:  store,
		Queue:  queue,

		ClassifyUC: classifyUC,
		ProcessUC:  processUC,
		IntakeUC:   usecase.NewSubmitTicketUseCase(store, queue),
		QueryUC:    usecase.NewTicketQueryUseCase(store),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewTextGenerator selects the generation backend named by cfg.LLMProvider.
func NewTextGenerator(cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	switch cfg.LLMProvider {
	case config.ProviderHuggingFace:
		client, err := huggingface.New(cfg.HuggingFaceURL, cfg.HuggingFaceAPIKey, cfg.Model(), huggingface.Options{
			Timeout:            timeout,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.Model(), ollama.Options{
			Timeout:            timeout,
			ResilienceExecutor: executor,
		}), nil
	case config.ProviderAnthropic:
		client, err := anthropic.New(cfg.AnthropicAPIKey, cfg.Model(), anthropic.Options{
			Timeout:            timeout,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, domain.WrapError(domain.ErrConfiguration, "select text generator", fmt.Errorf("unknown provider %q", cfg.LLMProvider))
	}
}

// LLMResilienceConfig keeps generation single-shot unless LLM_RETRY_MAX_ATTEMPTS
// is raised; the breaker still sheds load from a failing backend.
func LLMResilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = cfg.LLMRetryMaxAttempts
	if rc.RetryMaxAttempts <= 0 {
		rc.RetryMaxAttempts = 1
	}
	rc.RetryInitialBackoff = 500 * time.Millisecond
	rc.RetryMaxBackoff = 4 * time.Second
	rc.BreakerEnabled = cfg.LLMBreakerEnabled
	return rc
}

// NewDeduper connects the worker's redis guard. The returned closer is never nil.
func NewDeduper(cfg config.Config, logger *slog.Logger) (*dedup.Deduper, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("dedup_disabled", "reason", "REDIS_ADDR is empty")
		return dedup.NewDeduper(nil, 0, logger), func() {}
	}
	rdb := dedup.NewRedisClient(dedup.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ttl := time.Duration(cfg.DedupTTLSeconds) * time.Second
	return dedup.NewDeduper(rdb, ttl, logger), func() { _ = rdb.Close() }
}
