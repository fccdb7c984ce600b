// PayLog is a conversational expense and lending tracker. This binary
// wires the configured ledger backend, the AI provider chain and the
// preference store into the conversation engine, then runs the health
// server and the console transport side by side.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/HimanshuSingh-966/PayLog/internal/ai"
	"github.com/HimanshuSingh-966/PayLog/internal/amqp"
	"github.com/HimanshuSingh-966/PayLog/internal/bot"
	"github.com/HimanshuSingh-966/PayLog/internal/config"
	"github.com/HimanshuSingh-966/PayLog/internal/console"
	"github.com/HimanshuSingh-966/PayLog/internal/http"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger/google"
	"github.com/HimanshuSingh-966/PayLog/internal/ledger/memory"
	"github.com/HimanshuSingh-966/PayLog/internal/log"
	"github.com/HimanshuSingh-966/PayLog/internal/parse"
	"github.com/HimanshuSingh-966/PayLog/internal/prefs"
	"github.com/HimanshuSingh-966/PayLog/internal/storage"
	"github.com/HimanshuSingh-966/PayLog/internal/worker"
)

const (
	cacheTTL        = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, sqliteRepo, err := buildLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", log.FieldError, err)
		os.Exit(1)
	}
	if sqliteRepo != nil {
		defer sqliteRepo.Close()
	}
	logger.Info("Ledger backend ready", "backend", cfg.DataBackend)

	prefsStore := buildPrefs(cfg, logger)
	defer prefsStore.Close()

	completer := buildCompleter(ctx, cfg, logger)

	var publisher bot.TransactionPublisher
	if p := buildPublisher(cfg, sqliteRepo, logger); p != nil {
		defer p.Close()
		publisher = p
	}

	engine := bot.New(bot.Config{
		Ledger:     gateway,
		Prefs:      prefsStore,
		Parser:     parse.New(completer),
		AI:         completer,
		Publisher:  publisher,
		SessionTTL: cfg.SessionTTL,
	})

	srv := http.NewServer(cfg.Port)
	repl := console.New(engine, "console", os.Stdin, os.Stdout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down health server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		// Quitting the console ends the whole process.
		defer stop()
		return repl.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Shutdown finished with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("PayLog stopped gracefully")
}

// buildLedger returns the gateway for the configured backend. The SQLite
// repository is also returned separately so the sync publisher can read
// row ids from it.
func buildLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (ledger.Gateway, *storage.SQLiteRepository, error) {
	switch cfg.DataBackend {
	case "sheets":
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewCached(client, cacheTTL), nil, nil
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewCached(repo, cacheTTL), repo, nil
	default:
		logger.Warn("Using in-memory ledger, data will not survive a restart")
		return memory.New(), nil, nil
	}
}

func buildPrefs(cfg *config.Config, logger *log.Logger) prefs.Store {
	if cfg.PrefsDBPath == "" {
		return prefs.NewMemoryStore()
	}
	store, err := prefs.OpenBolt(cfg.PrefsDBPath)
	if err != nil {
		logger.Warn("Preference database unavailable, keeping preferences in memory", log.FieldError, err)
		return prefs.NewMemoryStore()
	}
	return store
}

// buildCompleter assembles the provider chain in priority order. A nil
// return means no provider is configured and the deterministic fallback
// parser handles everything.
func buildCompleter(ctx context.Context, cfg *config.Config, logger *log.Logger) parse.Completer {
	var providers []ai.Provider
	if cfg.GeminiAPIKey != "" {
		p, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini provider unavailable", log.FieldError, err)
		} else {
			providers = append(providers, p)
		}
	}
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, ai.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}
	if cfg.OpenRouterAPIKey != "" {
		providers = append(providers, ai.NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterModel))
	}
	if len(providers) == 0 {
		logger.Warn("No AI provider configured, using keyword extraction only")
		return nil
	}
	logger.Info("AI provider chain ready", "providers", len(providers))
	return ai.NewOrchestrator(providers, ai.DefaultMinInterval)
}

func buildPublisher(cfg *config.Config, repo *storage.SQLiteRepository, logger *log.Logger) *worker.SyncPublisher {
	if cfg.AMQPURL == "" || repo == nil {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, transactions will not be mirrored", log.FieldError, err)
		return nil
	}
	logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return worker.NewSyncPublisher(repo, client)
}
