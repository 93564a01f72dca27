// Package consumer feeds content-saved events from NATS into the hook registry.
package consumer

import (
	"context"
	"encoding/json"

	"github.com/blockedby/newsletter-light/internal/hooks"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
	natsclient "github.com/blockedby/newsletter-light/internal/nats"
)

// Durable consumer name on the content stream.
const durableName = "newsletter_dispatcher"

// Subscriber starts a durable subscription.
type Subscriber interface {
	Subscribe(ctx context.Context, stream, consumer, subject string, handler func([]byte) error) error
}

// Dispatcher runs hook handlers.
type Dispatcher interface {
	Dispatch(ctx context.Context, event hooks.Event, payload any) (any, error)
}

// Consumer handles consuming NATS events
type Consumer struct {
	sub   Subscriber
	hooks Dispatcher
	log   *logger.Logger
}

// NewConsumer creates a new NATS consumer
func NewConsumer(sub Subscriber, hooks Dispatcher, log *logger.Logger) *Consumer {
	return &Consumer{
		sub:   sub,
		hooks: hooks,
		log:   log,
	}
}

// Start subscribes to content.saved.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Str("subject", natsclient.SubjectContentSaved).Msg("starting content consumer")
	return c.sub.Subscribe(ctx, natsclient.StreamContent, durableName, natsclient.SubjectContentSaved, c.handleMessage)
}

// handleMessage processes a single message. Every message is acknowledged:
// a run either completes or fails outright and is never redelivered.
func (c *Consumer) handleMessage(data []byte) error {
	var ev models.NotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		c.log.Error().Err(err).Msg("invalid content event, skipping")
		return nil
	}

	out, err := c.hooks.Dispatch(context.Background(), hooks.EventContentAfterSave, ev)
	if err != nil {
		c.log.Error().Err(err).Str("context", string(ev.Context)).Msg("content event failed")
		return nil
	}

	c.log.Debug().Interface("result", out).Msg("content event handled")
	return nil
}
