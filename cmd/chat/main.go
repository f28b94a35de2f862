package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mkraskin/gemini-chat/pkg/chatapi"
	"github.com/mkraskin/gemini-chat/pkg/database"
	"github.com/mkraskin/gemini-chat/pkg/domain"
	"github.com/mkraskin/gemini-chat/pkg/logger"
	"github.com/mkraskin/gemini-chat/pkg/repository"
	"github.com/mkraskin/gemini-chat/pkg/services"
)

type Config struct {
	ServerURL   string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	SessionID   string `env:"SESSION_ID"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:      slog.LevelWarn,
		TimeFormat: logger.DefaultOptions.TimeFormat,
	})))

	if err := runMain(); err != nil {
		slog.Error("exiting due to error", logger.Err(err))
		os.Exit(1)
	}
}

func runMain() error {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("creating db: %w", err)
	}
	defer db.Close()

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := context.Background()

	controller, err := services.NewSessionController(
		ctx,
		sessionID,
		chatapi.NewClient(cfg.ServerURL),
		repository.NewHistoryRepository(db),
		func(message string) { fmt.Fprintln(os.Stderr, message) },
	)
	if err != nil {
		return fmt.Errorf("creating session controller: %w", err)
	}

	fmt.Printf("session %s (%d messages), /reload re-sends the last prompt, /abort stops waiting, /quit exits\n",
		sessionID, len(controller.Messages()))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/abort":
			controller.Abort()
			continue
		case "/reload":
			go runTurn(controller, func() error { return controller.Reload(ctx) })
		default:
			message := domain.NewUserMessage(line)
			go runTurn(controller, func() error { return controller.Append(ctx, message) })
		}
	}
}

type session interface {
	Messages() []domain.Message
	Alert() *domain.ErrorAlert
	ClearAlert()
}

func runTurn(c session, turn func() error) {
	before := len(c.Messages())

	if err := turn(); err != nil {
		if alert := c.Alert(); alert != nil {
			fmt.Printf("\n[%s] %s\n", alert.Title, alert.Description)
			if alert.IsRetryable {
				fmt.Println("Type /reload to retry.")
			}
			c.ClearAlert()
		}
		fmt.Print("> ")
		return
	}

	messages := c.Messages()
	if len(messages) > before {
		last := messages[len(messages)-1]
		if last.Role == domain.MessageRoleAssistant {
			fmt.Printf("\n%s\n> ", last.Content)
		}
	}
}
