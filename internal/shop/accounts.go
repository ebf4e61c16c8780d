package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

// Session is returned by a successful register or login.
type Session struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type Accounts struct {
	users      UserStore
	tokens     *auth.Tokens
	adminEmail string
}

// NewAccounts promotes the account registered with adminEmail to admin.
func NewAccounts(users UserStore, tokens *auth.Tokens, adminEmail string) *Accounts {
	return &Accounts{users: users, tokens: tokens, adminEmail: adminEmail}
}

func (a *Accounts) Register(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	_, err := a.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordLen)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		IsAdmin:  a.adminEmail != "" && email == a.adminEmail,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("User registered", "user_id", user.ID.Hex(), "admin", user.IsAdmin)

	return a.session(user)
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return a.session(user)
}

func (a *Accounts) session(user *models.User) (*Session, error) {
	token, err := a.tokens.Issue(auth.Identity{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}
