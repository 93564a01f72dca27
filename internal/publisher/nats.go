package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/newsletter-light/internal/dispatcher"
	natsclient "github.com/blockedby/newsletter-light/internal/nats"
)

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NewsletterSentEvent is published after a newsletter run.
type NewsletterSentEvent struct {
	ID        uuid.UUID `json:"id"`
	ArticleID int64     `json:"article_id"`
	Attempted int       `json:"attempted"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

// UnsubscribedEvent is published after a user left the notification group.
type UnsubscribedEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	GroupID   int64     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NATSPublisher announces newsletter activity on NATS.
type NATSPublisher struct {
	js  NATSClient
	now func() time.Time
}

// NewNATSPublisher creates a new publisher. conn is usually a *nats.Conn.
func NewNATSPublisher(conn NATSClient) *NATSPublisher {
	return &NATSPublisher{js: conn, now: time.Now}
}

// PublishNewsletterSent publishes the summary of a newsletter run.
func (p *NATSPublisher) PublishNewsletterSent(ctx context.Context, report dispatcher.Report) error {
	return p.publish(natsclient.SubjectNewsletterSent, NewsletterSentEvent{
		ID:        uuid.New(),
		ArticleID: report.ArticleID,
		Attempted: report.Attempted,
		Sent:      report.Sent,
		Failed:    report.Failed,
		CreatedAt: p.now(),
	})
}

// PublishUnsubscribed publishes a completed unsubscribe.
func (p *NATSPublisher) PublishUnsubscribed(ctx context.Context, userID, groupID int64) error {
	return p.publish(natsclient.SubjectUnsubscribed, UnsubscribedEvent{
		ID:        uuid.New(),
		UserID:    userID,
		GroupID:   groupID,
		CreatedAt: p.now(),
	})
}

func (p *NATSPublisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.js.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
