// Package hooks dispatches host lifecycle callbacks to plain handler functions.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/blockedby/newsletter-light/internal/models"
)

// ErrNoHandler is returned when an event has no registered handler.
var ErrNoHandler = errors.New("no handler registered")

// Event identifies a host lifecycle callback.
type Event int

const (
	// EventContentAfterSave fires after a content item was saved.
	EventContentAfterSave Event = iota + 1
	// EventAfterRender fires after a page was rendered for a request.
	EventAfterRender
)

func (e Event) String() string {
	switch e {
	case EventContentAfterSave:
		return "content_after_save"
	case EventAfterRender:
		return "after_render"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// PageRequest is the payload of EventAfterRender.
type PageRequest struct {
	URL      *url.URL
	Identity *models.User
}

// Handler processes one event payload and returns its outcome.
type Handler func(ctx context.Context, payload any) (any, error)

// Registry maps events to handlers. It is populated at startup and read-only afterwards.
type Registry struct {
	handlers map[Event]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Event]Handler)}
}

// On registers h for event, replacing any previous handler.
func (r *Registry) On(event Event, h Handler) {
	r.handlers[event] = h
}

// Dispatch runs the handler registered for event.
func (r *Registry) Dispatch(ctx context.Context, event Event, payload any) (any, error) {
	h, ok := r.handlers[event]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, event)
	}
	return h(ctx, payload)
}
