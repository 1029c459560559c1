package app

import (
	"context"
	"fmt"
	"strings"

	"bookshelf/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	RedisAddr     string
	RedisPassword string
	Views         store.ViewStore
}

// App is the core application service for view statistics.
type App struct {
	views store.ViewStore
}

// New constructs the application with redis-backed counters.
func New(cfg Config) (*App, error) {
	views := cfg.Views
	if views == nil {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, fmt.Errorf("redis addr required")
		}
		views = store.NewRedisViewStore(cfg.RedisAddr, cfg.RedisPassword)
	}
	return &App{views: views}, nil
}

// RecordView bumps the counter for a book and returns the new total.
// Existence of the book is the caller's responsibility; the counter itself
// is created implicitly at zero.
func (a *App) RecordView(ctx context.Context, bookID string) (int64, error) {
	count, err := a.views.IncrementView(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("increment view: %w", err)
	}
	return count, nil
}

// Stats returns the view count for every tracked book.
func (a *App) Stats(ctx context.Context) (map[string]int64, error) {
	counts, err := a.views.ViewCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load view counts: %w", err)
	}
	return counts, nil
}
