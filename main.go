package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/mkraskin/gemini-chat/pkg/api/handler"
	"github.com/mkraskin/gemini-chat/pkg/api/middleware"
	"github.com/mkraskin/gemini-chat/pkg/auth"
	"github.com/mkraskin/gemini-chat/pkg/gemini"
	"github.com/mkraskin/gemini-chat/pkg/logger"
	"github.com/mkraskin/gemini-chat/pkg/prompt"
	"github.com/mkraskin/gemini-chat/pkg/repository"
	"github.com/mkraskin/gemini-chat/pkg/service"
	"github.com/mkraskin/gemini-chat/pkg/workers"
)

type Config struct {
	Addr                string        `env:"ADDR" envDefault:":8080"`
	GeminiAPIKey        string        `env:"GEMINI_API_KEY"`
	SelectedModel       string        `env:"SELECTED_MODEL" envDefault:"gemini-2.5-flash"`
	ContextOptimization bool          `env:"CONTEXT_OPTIMIZATION_ENABLED" envDefault:"true"`
	ResponseCacheTTL    time.Duration `env:"RESPONSE_CACHE_TTL" envDefault:"5m"`
	ResponseCacheSize   int           `env:"RESPONSE_CACHE_SIZE" envDefault:"100"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	serviceGroup, err := setupServices()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return serviceGroup.Run(ctx)
}

func setupServices() (service.Group, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	credentials := auth.NewCredentials(cfg.GeminiAPIKey)
	settings := repository.NewSettingsRepository(cfg.SelectedModel, cfg.ContextOptimization)
	responseCache := repository.NewResponseCache(cfg.ResponseCacheSize, cfg.ResponseCacheTTL)
	assembler := prompt.NewAssembler()
	gateway := gemini.NewClient(credentials, settings)

	turnHandler := handler.NewTurn(assembler, responseCache, gateway, credentials)
	promptHandler := handler.NewPrompt(gateway, credentials)
	modelsHandler := handler.NewModels()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/turn", turnHandler.HandleTurn)
	mux.HandleFunc("POST /v1/prompt", promptHandler.HandlePrompt)
	mux.HandleFunc("GET /v1/models", modelsHandler.HandleModels)

	return service.Group{
		workers.NewAPIServer(cfg.Addr, middleware.RequestID(mux)),
	}, nil
}
