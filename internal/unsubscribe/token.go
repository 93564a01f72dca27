package unsubscribe

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/repository"
)

// TokenStore persists profile attributes.
type TokenStore interface {
	Get(ctx context.Context, userID int64, key string) (string, error)
	Set(ctx context.Context, userID int64, key, value string) error
}

// Tokens issues and verifies per-user unsubscribe tokens.
type Tokens struct {
	store    TokenStore
	generate func() (string, error)
}

// NewTokens creates a token manager on top of store.
func NewTokens(store TokenStore) *Tokens {
	return &Tokens{
		store:    store,
		generate: randomToken,
	}
}

// Issue returns the user's token, creating and storing one if none exists yet.
func (t *Tokens) Issue(ctx context.Context, userID int64) (string, error) {
	token, err := t.store.Get(ctx, userID, models.UnsubscribeTokenKey)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("load token: %w", err)
	}

	token, err = t.generate()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := t.store.Set(ctx, userID, models.UnsubscribeTokenKey, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token, nil
}

// Verify reports whether token matches the one stored for userID.
// Lookup failures count as a mismatch.
func (t *Tokens) Verify(ctx context.Context, userID int64, token string) bool {
	if userID <= 0 || token == "" {
		return false
	}

	stored, err := t.store.Get(ctx, userID, models.UnsubscribeTokenKey)
	if err != nil {
		return false
	}

	return stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
