package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/newsletter-light/internal/models"
)

func TestSessions_IssueAndIdentify(t *testing.T) {
	s := NewSessions("secret")
	token, err := s.Issue(models.User{ID: 5, Username: "jdoe", Name: "John", Email: "j@example.org"})
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		u := s.Identify(req)
		require.NotNil(t, u)
		assert.Equal(t, int64(5), u.ID)
		assert.Equal(t, "jdoe", u.Username)
		assert.False(t, u.Guest)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

		u := s.Identify(req)
		require.NotNil(t, u)
		assert.Equal(t, "j@example.org", u.Email)
	})
}

func TestSessions_IdentifyRejects(t *testing.T) {
	s := NewSessions("secret")
	other, err := NewSessions("other").Issue(models.User{ID: 5})
	require.NoError(t, err)

	expired := NewSessions("secret")
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := expired.Issue(models.User{ID: 5})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + other},
		{"expired", "Bearer " + old},
		{"wrong scheme", "Basic " + other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Nil(t, s.Identify(req))
		})
	}
}

func TestSessions_NoSecret(t *testing.T) {
	s := NewSessions("")

	_, err := s.Issue(models.User{ID: 1})
	assert.Error(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	assert.Nil(t, s.Identify(req))
}
