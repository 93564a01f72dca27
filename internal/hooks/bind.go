package hooks

import (
	"context"
	"fmt"

	"github.com/blockedby/newsletter-light/internal/dispatcher"
	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/unsubscribe"
)

// ContentSaver handles EventContentAfterSave.
type ContentSaver interface {
	OnContentAfterSave(ctx context.Context, ev models.NotificationEvent) (dispatcher.Report, error)
}

// PageHandler handles EventAfterRender.
type PageHandler interface {
	Handle(ctx context.Context, req PageRequest) unsubscribe.Result
}

// Bind registers the newsletter handlers on r.
func Bind(r *Registry, saver ContentSaver, pages PageHandler) {
	r.On(EventContentAfterSave, func(ctx context.Context, payload any) (any, error) {
		ev, ok := payload.(models.NotificationEvent)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected payload %T", EventContentAfterSave, payload)
		}
		return saver.OnContentAfterSave(ctx, ev)
	})

	r.On(EventAfterRender, func(ctx context.Context, payload any) (any, error) {
		req, ok := payload.(PageRequest)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected payload %T", EventAfterRender, payload)
		}
		return pages.Handle(ctx, req), nil
	})
}

// UnsubscribePages adapts the unsubscribe service to PageHandler.
type UnsubscribePages struct {
	Service *unsubscribe.Service
}

// Handle implements PageHandler.
func (p UnsubscribePages) Handle(ctx context.Context, req PageRequest) unsubscribe.Result {
	if req.URL == nil {
		return unsubscribe.Result{}
	}
	return p.Service.Handle(ctx, req.URL, req.Identity)
}
