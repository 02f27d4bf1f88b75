package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"titanchat/core/internal/bootstrap"
	"titanchat/core/internal/config"
	"titanchat/core/internal/log"
	"titanchat/core/internal/models"
	"titanchat/core/internal/observability"
	"titanchat/core/internal/repository"
	"titanchat/core/internal/storage"
)

const usage = "usage: titanchat [bootstrap|stats|users|reset]"

func main() {
	command := "bootstrap"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "bootstrap", "stats", "users", "reset":
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("store close error")
		}
	}()

	if command == "reset" {
		if err := store.Reset(ctx); err != nil {
			logger.Fatal().Err(err).Msg("reset failed")
		}
	}

	if _, err := bootstrap.Run(ctx, store, logger, bootstrap.Options{Seed: cfg.Bootstrap.Seed}); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap failed")
	}

	repos := repository.New(store, logger, nil)

	switch command {
	case "stats":
		logStats(ctx, logger, repos)
	case "users":
		if err := printUsers(ctx, repos); err != nil {
			logger.Error().Err(err).Msg("list users failed")
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := observability.WriteTextfile(cfg.Metrics.Textfile, prometheus.DefaultGatherer); err != nil {
			logger.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("metrics export failed")
		}
	}
}

func logStats(ctx context.Context, logger zerolog.Logger, repos *repository.Set) {
	messages := 0
	logs := repos.Messages.List(ctx)
	for _, entries := range logs {
		messages += len(entries)
	}
	current, loggedIn := repos.Sessions.CurrentUserID(ctx)

	logger.Info().
		Int("users", len(repos.Users.List(ctx))).
		Int("chats", len(repos.Chats.List(ctx))).
		Int("message_logs", len(logs)).
		Int("messages", messages).
		Bool("logged_in", loggedIn).
		Str("current_user_id", current).
		Msg("store stats")

	if err := observability.LogSamples(logger, prometheus.DefaultGatherer); err != nil {
		logger.Error().Err(err).Msg("gather metrics failed")
	}
}

type userLine struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Nickname string            `json:"nickname"`
	Email    string            `json:"email"`
	Status   models.UserStatus `json:"status,omitempty"`
	IsAdmin  bool              `json:"isAdmin"`
}

func printUsers(ctx context.Context, repos *repository.Set) error {
	enc := json.NewEncoder(os.Stdout)
	for _, u := range repos.Users.List(ctx) {
		if err := enc.Encode(userLine{
			ID:       u.ID,
			Name:     u.Name,
			Nickname: u.Nickname,
			Email:    u.Email,
			Status:   u.Status,
			IsAdmin:  u.Admin(),
		}); err != nil {
			return err
		}
	}
	return nil
}
