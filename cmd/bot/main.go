package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rizalw/pricetag/internal/app"
	"github.com/rizalw/pricetag/internal/bot"
	"github.com/rizalw/pricetag/internal/config"
	"github.com/rizalw/pricetag/pkg/logger"
)

// Console frontend for the label bot: reads "chatID text" lines from stdin,
// prints text replies and writes label images to BOT_OUTPUT_DIR. Useful for
// exercising the command surface without a chat network connection.
func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("pricetag-bot", cfg.LogLevel)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			log.Error("shutdown error", slog.String("error", err.Error()))
		}
	}()

	var sessions bot.SessionStore
	if client := application.Redis(); client != nil {
		sessions = bot.NewRedisSessionStore(client, application.SessionTTL())
		log.Info("using redis session store")
	} else {
		sessions = bot.NewMemorySessionStore()
		log.Info("using in-memory session store")
	}

	transport := bot.NewConsoleTransport(os.Stdout, cfg.BotOutputDir)
	handler := bot.NewHandler(
		application.Catalog(),
		application.Pipeline(),
		transport,
		sessions,
		log,
		bot.WithBulkCommandMax(cfg.BulkCommandMax),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("pricetag bot console. Lines are '<chatID> <message>'; Ctrl+D to exit.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			chatID, text, found := strings.Cut(strings.TrimSpace(line), " ")
			if !found || chatID == "" {
				fmt.Println("usage: <chatID> <message>")
				continue
			}
			handler.HandleMessage(ctx, bot.Message{ChatID: chatID, Text: text})
		}
	}
}
