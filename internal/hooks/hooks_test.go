package hooks

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/newsletter-light/internal/dispatcher"
	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/unsubscribe"
)

type stubSaver struct {
	got []models.NotificationEvent
}

func (s *stubSaver) OnContentAfterSave(ctx context.Context, ev models.NotificationEvent) (dispatcher.Report, error) {
	s.got = append(s.got, ev)
	return dispatcher.Report{ArticleID: ev.Article.ID, Sent: 1}, nil
}

type stubPages struct {
	got []PageRequest
}

func (s *stubPages) Handle(ctx context.Context, req PageRequest) unsubscribe.Result {
	s.got = append(s.got, req)
	return unsubscribe.Result{Handled: true, RedirectURL: "/"}
}

func TestRegistry_DispatchUnknown(t *testing.T) {
	_, err := NewRegistry().Dispatch(context.Background(), EventAfterRender, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHandler))
	assert.Contains(t, err.Error(), "after_render")
}

func TestBind_ContentAfterSave(t *testing.T) {
	saver := &stubSaver{}
	r := NewRegistry()
	Bind(r, saver, &stubPages{})

	out, err := r.Dispatch(context.Background(), EventContentAfterSave, models.NotificationEvent{
		IsNew:   true,
		Article: &models.Article{ID: 7},
	})
	require.NoError(t, err)

	report, ok := out.(dispatcher.Report)
	require.True(t, ok)
	assert.Equal(t, int64(7), report.ArticleID)
	assert.Len(t, saver.got, 1)
}

func TestBind_AfterRender(t *testing.T) {
	pages := &stubPages{}
	r := NewRegistry()
	Bind(r, &stubSaver{}, pages)

	u, _ := url.Parse("https://example.org/?unsubscribe=1")
	out, err := r.Dispatch(context.Background(), EventAfterRender, PageRequest{URL: u})
	require.NoError(t, err)

	res, ok := out.(unsubscribe.Result)
	require.True(t, ok)
	assert.True(t, res.Handled)
	assert.Len(t, pages.got, 1)
}

func TestBind_WrongPayload(t *testing.T) {
	r := NewRegistry()
	Bind(r, &stubSaver{}, &stubPages{})

	_, err := r.Dispatch(context.Background(), EventContentAfterSave, "nope")
	assert.ErrorContains(t, err, "unexpected payload string")

	_, err = r.Dispatch(context.Background(), EventAfterRender, 42)
	assert.ErrorContains(t, err, "unexpected payload int")
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "content_after_save", EventContentAfterSave.String())
	assert.Equal(t, "event(99)", Event(99).String())
}

func TestUnsubscribePages_NilURL(t *testing.T) {
	res := UnsubscribePages{}.Handle(context.Background(), PageRequest{})
	assert.False(t, res.Handled)
}
