package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"bookshelf/internal/ratelimit"
	"bookshelf/internal/util"
	"bookshelf/services/auth/internal/app"
	"bookshelf/services/auth/internal/config"
	"bookshelf/services/auth/internal/server"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	tokenTTL, err := config.ParseTokenTTL(cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to parse token TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    tokenTTL,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	trustedProxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}
	registerLimiter, err := newLimiter(cfg, "bookshelf:auth:register", cfg.RegisterRateLimitPerMinute)
	if err != nil {
		log.Fatalf("failed to init register limiter: %v", err)
	}
	loginLimiter, err := newLimiter(cfg, "bookshelf:auth:login", cfg.LoginRateLimitPerMinute)
	if err != nil {
		log.Fatalf("failed to init login limiter: %v", err)
	}

	httpServer := server.New(server.Config{
		App:             appCore,
		RegisterLimiter: registerLimiter,
		LoginLimiter:    loginLimiter,
		TrustedProxies:  trustedProxies,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("auth server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newLimiter(cfg config.FileConfig, prefix string, perMinute int) (*ratelimit.FixedWindowLimiter, error) {
	if perMinute <= 0 {
		return nil, nil
	}
	return ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, perMinute, time.Minute)
}
