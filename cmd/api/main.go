package main

import (
	"context"
	"hudori/internal/auth"
	"hudori/internal/chat"
	"hudori/internal/config"
	"hudori/internal/database"
	"hudori/internal/logger"
	"hudori/internal/server"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty && !cfg.IsProduction(),
	})

	ctx := context.Background()
	store, err := database.New(ctx, cfg.Database)
	if err != nil {
		lg.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open database")
	}
	defer store.Close()

	svc := chat.New(store,
		chat.WithLogger(lg.With().Str("component", "chat").Logger()),
		chat.WithAdminSecret(cfg.AdminSecret),
	)
	authService := auth.New(cfg.Auth, auth.NewCookieStore(cfg.Session))

	srv := server.NewServer(cfg, svc, authService, lg.With().Str("component", "http").Logger())
	if err := srv.Run(ctx); err != nil {
		lg.Error().Err(err).Msg("server stopped with an error")
		store.Close()
		os.Exit(1)
	}
}
