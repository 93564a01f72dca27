package unsubscribe

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/repository"
)

func newProfileStore(t *testing.T) *repository.ProfilesRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.ProfileAttribute{}))

	return repository.NewProfilesRepository(db)
}

func TestTokens_VerifyBeforeAndAfterIssue(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens(newProfileStore(t))
	tokens.generate = func() (string, error) { return "abc", nil }

	assert.False(t, tokens.Verify(ctx, 5, "abc"), "no token issued yet")

	token, err := tokens.Issue(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	assert.True(t, tokens.Verify(ctx, 5, "abc"))
	assert.False(t, tokens.Verify(ctx, 5, "abd"))
	assert.False(t, tokens.Verify(ctx, 5, ""))
	assert.False(t, tokens.Verify(ctx, 6, "abc"))
}

func TestTokens_IssueReusesExisting(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens(newProfileStore(t))

	first, err := tokens.Issue(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := tokens.Issue(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := tokens.Issue(ctx, 6)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(context.Context, int64, string) (string, error) {
	return "", f.getErr
}

func (f failingStore) Set(context.Context, int64, string, string) error {
	return f.setErr
}

func TestTokens_StoreFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewTokens(failingStore{getErr: errors.New("db down")}).Issue(ctx, 5)
	assert.ErrorContains(t, err, "load token")

	_, err = NewTokens(failingStore{getErr: repository.ErrNotFound, setErr: errors.New("insert failed")}).Issue(ctx, 5)
	assert.ErrorContains(t, err, "store token")

	assert.False(t, NewTokens(failingStore{getErr: errors.New("db down")}).Verify(ctx, 5, "abc"))
}

func TestSessionAuthorizer(t *testing.T) {
	ctx := context.Background()
	a := SessionAuthorizer{}

	assert.True(t, a.Authorize(ctx, Request{UserID: 5, Identity: &models.User{ID: 5}}))
	assert.False(t, a.Authorize(ctx, Request{UserID: 5, Identity: &models.User{ID: 6}}))
	assert.False(t, a.Authorize(ctx, Request{UserID: 5}))
	assert.False(t, a.Authorize(ctx, Request{UserID: 5, Identity: &models.User{ID: 5, Guest: true}}))
	assert.False(t, a.RequiresToken())
}

func TestNewAuthorizer(t *testing.T) {
	tokens := NewTokens(newProfileStore(t))

	a, err := NewAuthorizer(config.UnsubscribeModeToken, tokens)
	require.NoError(t, err)
	assert.IsType(t, &TokenAuthorizer{}, a)
	assert.True(t, a.RequiresToken())

	a, err = NewAuthorizer(config.UnsubscribeModeSession, tokens)
	require.NoError(t, err)
	assert.IsType(t, SessionAuthorizer{}, a)

	_, err = NewAuthorizer("bogus", tokens)
	assert.Error(t, err)
}
