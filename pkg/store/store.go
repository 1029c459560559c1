package store

import (
	"context"

	"bookshelf/pkg/domain"
)

// UserStore defines persistence for user credentials, owned by the auth
// service. Users are created once and never mutated or deleted.
type UserStore interface {
	SaveUser(domain.User) error
	HasUsername(username string) (bool, error)
	HasUserEmail(email string) (bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
}

// BookStore defines persistence for catalog records, owned by the book
// service. There is no update operation.
type BookStore interface {
	SaveBook(domain.Book) error
	ListBooks() ([]domain.Book, error)
	GetBook(id string) (domain.Book, bool, error)
	// DeleteBook reports whether a record was actually removed.
	DeleteBook(id string) (bool, error)
}

// ViewStore defines per-book view counters, owned by the stats service.
// Counters are created implicitly at zero and never deleted. IncrementView
// must be atomic so concurrent views are never lost.
type ViewStore interface {
	IncrementView(ctx context.Context, bookID string) (int64, error)
	ViewCounts(ctx context.Context) (map[string]int64, error)
}
