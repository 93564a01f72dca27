package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blockedby/newsletter-light/internal/models"
)

// SessionCookie carries the session token for browser requests.
const SessionCookie = "newsletter_session"

const sessionIssuer = "newsletter-light"

// SessionClaims identify the logged-in user.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Sessions issues and verifies session tokens signed by the host.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a Sessions. An empty secret disables identification.
func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
}

// Issue signs a session token for u. The host platform signs its sessions
// the same way with the shared SESSION_SECRET; this service only verifies them.
func (s *Sessions) Issue(u models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	now := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
		UserID:   u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Identify returns the user behind the request, or nil for guests.
// The token is read from the Authorization header, then from SessionCookie.
func (s *Sessions) Identify(r *http.Request) *models.User {
	if len(s.secret) == 0 {
		return nil
	}

	raw := bearerToken(r)
	if raw == "" {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			return nil
		}
		raw = c.Value
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return nil
	}

	return &models.User{
		ID:       claims.UserID,
		Username: claims.Username,
		Name:     claims.Name,
		Email:    claims.Email,
	}
}

func bearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
