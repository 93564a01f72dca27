package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/newsletter-light/internal/hooks"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
)

type fakeSubscriber struct {
	stream, consumer, subject string
	handler                   func([]byte) error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, stream, consumer, subject string, handler func([]byte) error) error {
	f.stream, f.consumer, f.subject = stream, consumer, subject
	f.handler = handler
	return nil
}

type fakeDispatcher struct {
	events []models.NotificationEvent
	err    error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, event hooks.Event, payload any) (any, error) {
	if event != hooks.EventContentAfterSave {
		return nil, errors.New("unexpected event")
	}
	f.events = append(f.events, payload.(models.NotificationEvent))
	return nil, f.err
}

func TestConsumer_Start(t *testing.T) {
	sub := &fakeSubscriber{}
	c := NewConsumer(sub, &fakeDispatcher{}, logger.Get())

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, "content", sub.stream)
	assert.Equal(t, "newsletter_dispatcher", sub.consumer)
	assert.Equal(t, "content.saved", sub.subject)
	assert.NotNil(t, sub.handler)
}

func TestConsumer_HandleMessage(t *testing.T) {
	d := &fakeDispatcher{}
	c := NewConsumer(&fakeSubscriber{}, d, logger.Get())

	err := c.handleMessage([]byte(`{"context":"com_content.article","is_new":true,"article":{"id":7,"title":"T","catid":2}}`))
	require.NoError(t, err)

	require.Len(t, d.events, 1)
	ev := d.events[0]
	assert.True(t, ev.IsNew)
	assert.Equal(t, models.ContextArticleBackend, ev.Context)
	assert.Equal(t, int64(7), ev.Article.ID)
	assert.Equal(t, int64(2), ev.Article.CategoryID)
}

func TestConsumer_PoisonAndFailuresAreAcked(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("db down")}
	c := NewConsumer(&fakeSubscriber{}, d, logger.Get())

	assert.NoError(t, c.handleMessage([]byte("not json")))
	assert.Empty(t, d.events)

	assert.NoError(t, c.handleMessage([]byte(`{"is_new":true}`)))
	assert.Len(t, d.events, 1)
}
