package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/vocabdrill/internal/ai"
	"github.com/example/vocabdrill/internal/api"
	"github.com/example/vocabdrill/internal/bot"
	"github.com/example/vocabdrill/internal/catalog"
	"github.com/example/vocabdrill/internal/config"
	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/internal/dictionary"
	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/logger"
	"github.com/example/vocabdrill/internal/scheduler"
	"github.com/example/vocabdrill/internal/spaced_repetition"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	histories := database.NewHistoryRepository(db)
	users := database.NewUserRepository(db)

	importConfig := catalog.DefaultImportConfig(cfg.Catalog.Path)
	importConfig.WordColumn = cfg.Catalog.WordColumn
	importConfig.StartRow = cfg.Catalog.StartRow
	words := catalog.Load(log, importConfig)

	var lookup dictionary.Client = dictionary.NewFreeDictionaryClient(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout)
	if cfg.Dictionary.CacheTTL > 0 {
		lookup = dictionary.NewCachedClient(lookup, cfg.Dictionary.CacheTTL)
	}

	narrator, err := newNarrator(ctx, log, cfg.LLM)
	if err != nil {
		log.Warn("story generation disabled", "provider", cfg.LLM.Provider, "error", err)
	}

	service, err := drill.NewService(drill.Options{
		Scheduler: spaced_repetition.NewSchedulerWithConfig(spaced_repetition.Config{
			BatchSize: cfg.Drill.BatchSize,
			DueQuota:  &cfg.Drill.DueQuota,
		}),
		Catalog:    words,
		History:    histories,
		Dictionary: lookup,
		Narrator:   narrator,
		Language:   cfg.LLM.StoryLanguage,
		Clock:      time.Now,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:     log,
	})
	if err != nil {
		log.Error("failed to create drill service", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(service, users, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	var b *bot.Bot
	if cfg.Telegram.Token != "" {
		b, err = bot.New(cfg.Telegram.Token, cfg.Telegram.AdminIDs, service, users, log)
		if err != nil {
			log.Error("failed to create bot", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := b.Start(ctx); err != nil {
				log.Error("bot error", "error", err)
			}
		}()
	} else {
		log.Info("TELEGRAM_BOT_TOKEN is not set, running without the bot")
	}

	var reminders *scheduler.Scheduler
	if b != nil && cfg.Reminders.Enabled {
		reminders = scheduler.New(b, users, histories, scheduler.Config{
			StartHour: cfg.Reminders.StartHour,
			EndHour:   cfg.Reminders.EndHour,
		}, log)
		if err := reminders.Start(); err != nil {
			log.Error("failed to start reminder scheduler", "error", err)
			reminders = nil
		}
	}

	log.Info("vocabdrill started",
		"catalog_size", len(words),
		"dictionary", lookup.Name(),
		"stories", service.HasNarrator())

	select {
	case sig := <-sigChan:
		log.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	// Give in-flight requests time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if reminders != nil {
		reminders.Stop()
	}
	if b != nil {
		b.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("vocabdrill stopped")
}

// newNarrator picks the story backend; a nil Narrator disables stories
func newNarrator(ctx context.Context, log *slog.Logger, cfg config.LLM) (ai.Narrator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := ai.NewGeminiNarrator(ctx, log, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOpenAI:
		if c := ai.NewChatGPT(cfg.OpenAIAPIKey, cfg.OpenAIModel); c != nil {
			return c, nil
		}
		return nil, errors.New("OpenAI API key is not set")
	default:
		return nil, nil
	}
}
