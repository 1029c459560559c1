package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf/pkg/domain"
	"bookshelf/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	Store       store.BookStore
}

// App is the core application service for the book catalog.
type App struct {
	store store.BookStore
}

// New constructs the application with database-backed catalog storage.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormBookStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	return &App{store: dataStore}, nil
}

// AddBook stores a new record under a generated id.
func (a *App) AddBook(title, author string, year *int) (domain.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return domain.Book{}, ErrMissingFields
	}
	book := domain.Book{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    author,
		Year:      year,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// ListBooks returns all records in creation order.
func (a *App) ListBooks() ([]domain.Book, error) {
	return a.store.ListBooks()
}

// GetBook retrieves a record after validating the identifier shape.
func (a *App) GetBook(id string) (domain.Book, error) {
	if err := validateID(id); err != nil {
		return domain.Book{}, err
	}
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("fetch book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// DeleteBook removes a record, failing when nothing was deleted.
func (a *App) DeleteBook(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	deleted, err := a.store.DeleteBook(id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !deleted {
		return ErrBookNotFound
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidBookID
	}
	return nil
}
