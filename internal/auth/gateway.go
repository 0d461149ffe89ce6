package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
	"github.com/larkerlabs/storefront-orderflow/internal/validation"
)

// Gateway exposes sign-in and account creation over the identity store.
type Gateway struct {
	store    identityStore
	sessions *Sessions
	validate *validatorv10.Validate
}

// identityStore is the slice of Store the gateway needs; tests swap in a fake.
type identityStore interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

func NewGateway(store *Store, sessions *Sessions) *Gateway {
	return &Gateway{
		store:    store,
		sessions: sessions,
		validate: validation.New(),
	}
}

// SignIn checks the credential pair and issues a session token.
// Unknown email and wrong password produce the identical Unauthorized error
// so the response cannot be used for account enumeration.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := g.store.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("load identity: %w", err)
	}
	if user == nil {
		return "", apierr.New(apierr.KindUnauthorized, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apierr.New(apierr.KindUnauthorized, "invalid email or password")
	}

	token, err := g.sessions.Issue(user.UserID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	slog.Info("user signed in", "user_id", user.UserID)
	return token, nil
}

// CreateAccount validates the credential pair, hashes the password and
// writes the identity record. A taken email surfaces as Conflict.
func (g *Gateway) CreateAccount(ctx context.Context, email, password string) (*User, error) {
	creds := validation.Credentials{Email: email, Password: password}
	if err := validation.Check(g.validate, creds); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := g.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apierr.New(apierr.KindConflict, "email already registered")
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	slog.Info("account created", "user_id", user.UserID)
	return &user, nil
}
