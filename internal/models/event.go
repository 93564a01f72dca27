package models

import "fmt"

// EventContext identifies where a content item was saved.
type EventContext string

// EventContext constants map to the host's content save contexts.
const (
	ContextArticleBackend  EventContext = "com_content.article"
	ContextArticleFrontend EventContext = "com_content.form"
)

// ParseContext converts a host context string into an EventContext.
func ParseContext(s string) (EventContext, error) {
	switch EventContext(s) {
	case ContextArticleBackend, ContextArticleFrontend:
		return EventContext(s), nil
	default:
		return "", fmt.Errorf("unsupported content context: %q", s)
	}
}

// Article is the content item carried by a publish event.
type Article struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IntroText  string `json:"introtext"`
	FullText   string `json:"fulltext"`
	CategoryID int64  `json:"catid"`
}

// NotificationEvent is created per content save callback and never persisted.
type NotificationEvent struct {
	Context    EventContext `json:"context"`
	Article    *Article     `json:"article,omitempty"`
	ActingUser *User        `json:"acting_user,omitempty"`
	IsNew      bool         `json:"is_new"`
}
