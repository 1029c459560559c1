package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"bookshelf/internal/util"
	"bookshelf/services/stats/internal/app"
	"bookshelf/services/stats/internal/authclient"
	"bookshelf/services/stats/internal/bookclient"
	"bookshelf/services/stats/internal/config"
	"bookshelf/services/stats/internal/server"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:   appCore,
		Auth:  authclient.NewClient(cfg.AuthURL),
		Books: bookclient.NewClient(cfg.BookURL),
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("stats server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
