package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"calidad/internal/api"
	"calidad/internal/cache"
	"calidad/internal/config"
	"calidad/internal/database"
	"calidad/internal/repository"
	"calidad/internal/token"
	"calidad/internal/validator"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.New()

	var handler slog.Handler
	if cfg.Server.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, continuing without cache", "error", err)
		} else {
			defer redisCache.Close()
			cacheStore = redisCache
		}
	}

	repo := repository.NewStore(db)
	validate := validator.New()
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)

	app := api.Router(api.NewHandler(cfg, repo, validate, tokens, cacheStore))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	slog.Info("Starting server", "addr", addr)
	return app.Listen(addr)
}
