package app

import "errors"

var (
	// ErrMissingFields is returned when a new book lacks title or author.
	ErrMissingFields = errors.New("title and author are required")

	// ErrInvalidBookID is returned when an identifier is not a well-formed
	// UUID, before the store is consulted.
	ErrInvalidBookID = errors.New("invalid book id")

	// ErrBookNotFound is returned when no record matches the identifier.
	ErrBookNotFound = errors.New("book not found")
)
