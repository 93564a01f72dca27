package unsubscribe

import (
	"context"
	"fmt"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/models"
)

// Request is an inbound unsubscribe request.
type Request struct {
	UserID int64
	Token  string
	// Identity is the authenticated requester, nil for guests.
	Identity *models.User
}

// Authorizer decides whether a request may remove the user from the group.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) bool
	// RequiresToken reports whether requests without a token can be rejected early.
	RequiresToken() bool
}

// TokenAuthorizer accepts requests carrying the user's stored token.
type TokenAuthorizer struct {
	tokens *Tokens
}

// NewTokenAuthorizer creates a TokenAuthorizer.
func NewTokenAuthorizer(tokens *Tokens) *TokenAuthorizer {
	return &TokenAuthorizer{tokens: tokens}
}

// Authorize implements Authorizer.
func (a *TokenAuthorizer) Authorize(ctx context.Context, req Request) bool {
	return a.tokens.Verify(ctx, req.UserID, req.Token)
}

// RequiresToken implements Authorizer.
func (a *TokenAuthorizer) RequiresToken() bool { return true }

// SessionAuthorizer accepts requests from the user themselves.
type SessionAuthorizer struct{}

// Authorize implements Authorizer.
func (SessionAuthorizer) Authorize(_ context.Context, req Request) bool {
	if req.Identity == nil || req.Identity.Guest {
		return false
	}
	return req.UserID > 0 && req.Identity.ID == req.UserID
}

// RequiresToken implements Authorizer.
func (SessionAuthorizer) RequiresToken() bool { return false }

// NewAuthorizer returns the authorizer for mode.
func NewAuthorizer(mode config.UnsubscribeMode, tokens *Tokens) (Authorizer, error) {
	switch mode {
	case config.UnsubscribeModeToken:
		return NewTokenAuthorizer(tokens), nil
	case config.UnsubscribeModeSession:
		return SessionAuthorizer{}, nil
	default:
		return nil, fmt.Errorf("unknown unsubscribe mode %q", mode)
	}
}
