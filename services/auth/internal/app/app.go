package app

import (
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/usertoken"
	"bookshelf/internal/util"
	"bookshelf/pkg/auth"
	"bookshelf/pkg/domain"
	"bookshelf/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	TokenSecret string
	TokenTTL    time.Duration
	Store       store.UserStore
}

// App is the core application service wiring together credential storage and
// token issuance.
type App struct {
	store    store.UserStore
	signer   *usertoken.Signer
	verifier *usertoken.Verifier
}

// New constructs the application with database storage and an HS256 token
// signer/verifier sharing the configured secret.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormUserStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	signer, err := usertoken.NewSigner(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token signer: %w", err)
	}
	verifier, err := usertoken.NewVerifier(cfg.TokenSecret, 0)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}
	return &App{
		store:    dataStore,
		signer:   signer,
		verifier: verifier,
	}, nil
}

// Register creates a new user with a bcrypt-hashed password. Username and
// email must be unique; the check runs before insert so conflicts surface as
// typed errors rather than database failures.
func (a *App) Register(username, password, email string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || password == "" || email == "" {
		return domain.User{}, ErrMissingFields
	}
	usernameTaken, err := a.store.HasUsername(username)
	if err != nil {
		return domain.User{}, fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		return domain.User{}, ErrUsernameExists
	}
	emailTaken, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return domain.User{}, ErrEmailExists
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login validates credentials and mints a signed token embedding user id,
// username, and expiry.
func (a *App) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrMissingFields
	}
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := a.signer.Sign(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken validates signature and expiry, then confirms the embedded
// user still exists. The store is authoritative for the returned identity.
func (a *App) VerifyToken(token string) (domain.Identity, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(claims.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}
