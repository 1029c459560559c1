package domain

import "time"

// User is a registered account held by the auth service.
// The password hash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Book is a catalog record owned by the book service.
// Year is optional and omitted from JSON when unset.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Year      *int      `json:"year,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the authenticated caller resolved from a bearer token,
// as returned by the auth service /verify endpoint.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
