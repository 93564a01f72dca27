package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/render"
	"github.com/blockedby/newsletter-light/internal/repository"
)

// WarningMailNotSent is shown to the editor for every failed delivery.
const WarningMailNotSent = "The newsletter mail could not be sent"

// RecipientResolver computes who to notify.
type RecipientResolver interface {
	Resolve(ctx context.Context, opts config.Options) (*models.RecipientSet, error)
}

// TokenIssuer hands out unsubscribe tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, userID int64) (string, error)
}

// CategoryLookup resolves category titles.
type CategoryLookup interface {
	TitleByID(ctx context.Context, id int64) (string, error)
}

// MailSender delivers a single message.
type MailSender interface {
	Send(ctx context.Context, msg models.Message) error
}

// EventPublisher announces finished runs. Optional.
type EventPublisher interface {
	PublishNewsletterSent(ctx context.Context, report Report) error
}

// Service sends the new-content newsletter.
type Service struct {
	opts       config.Options
	site       render.Site
	resolver   RecipientResolver
	tokens     TokenIssuer
	categories CategoryLookup
	mailer     MailSender
	publisher  EventPublisher
	log        *logger.Logger
}

// NewService creates a new dispatcher Service. publisher may be nil.
func NewService(
	opts config.Options,
	site render.Site,
	resolver RecipientResolver,
	tokens TokenIssuer,
	categories CategoryLookup,
	mailer MailSender,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		opts:       opts,
		site:       site,
		resolver:   resolver,
		tokens:     tokens,
		categories: categories,
		mailer:     mailer,
		publisher:  publisher,
		log:        log,
	}
}

// Enabled reports whether ev should trigger a newsletter.
func (s *Service) Enabled(ev models.NotificationEvent) bool {
	if !ev.IsNew || ev.Article == nil {
		return false
	}

	switch ev.Context {
	case models.ContextArticleBackend:
		return s.opts.ArticleBackend
	case models.ContextArticleFrontend:
		return s.opts.ArticleFrontend
	default:
		return false
	}
}

// OnContentAfterSave notifies all recipients about newly saved content.
// Existing content and disabled contexts are ignored. Individual delivery
// failures end up in the report; only recipient resolution aborts the run.
func (s *Service) OnContentAfterSave(ctx context.Context, ev models.NotificationEvent) (Report, error) {
	if !s.Enabled(ev) {
		return Report{Deliveries: []Delivery{}}, nil
	}

	recipients, err := s.resolver.Resolve(ctx, s.opts)
	if err != nil {
		return Report{}, fmt.Errorf("resolve recipients: %w", err)
	}

	base := render.Params{
		Site:         s.site,
		Actor:        ev.ActingUser,
		Article:      ev.Article,
		CategoryName: s.categoryName(ctx, ev.Article.CategoryID),
	}

	tracker := NewDeliveryTracker(ev.Article.ID, s.log)
	for _, ref := range recipients.List() {
		msg := s.compose(ctx, base, ref)
		if err := s.mailer.Send(ctx, msg); err != nil {
			tracker.TrackFailure(ref, err)
			continue
		}
		tracker.TrackSent(ref)
	}

	report := tracker.Report()
	s.log.Info().
		Int64("article_id", report.ArticleID).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Msg("newsletter dispatched")

	if s.publisher != nil && report.Attempted > 0 {
		if err := s.publisher.PublishNewsletterSent(ctx, report); err != nil {
			s.log.Warn().Err(err).Int64("article_id", report.ArticleID).Msg("failed to publish newsletter event")
		}
	}

	return report, nil
}

// compose renders the message for one recipient. Known users get the
// personalized body with an unsubscribe link; bare addresses cannot
// unsubscribe and get the alternative body.
func (s *Service) compose(ctx context.Context, base render.Params, ref models.RecipientRef) models.Message {
	p := base
	p.Receiver = ref.User()

	bodyTmpl := s.opts.UnableToUnsubscribeBody
	if ref.HasUser() {
		if link, ok := s.unsubscribeURL(ctx, ref.UserID); ok {
			p.UnsubscribeURL = link
			bodyTmpl = s.opts.NewsletterBody
		}
	}

	return models.Message{
		To:       ref.Email,
		Subject:  render.Subject(s.opts.NewsletterSubject, p),
		HTMLBody: render.Body(bodyTmpl, p),
	}
}

func (s *Service) unsubscribeURL(ctx context.Context, userID int64) (string, bool) {
	if s.opts.UnsubscribeMode == config.UnsubscribeModeSession {
		return s.site.UnsubscribeURL(userID, ""), true
	}
	if s.tokens == nil {
		return "", false
	}

	token, err := s.tokens.Issue(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to issue unsubscribe token")
		return "", false
	}
	return s.site.UnsubscribeURL(userID, token), true
}

func (s *Service) categoryName(ctx context.Context, id int64) string {
	if id == 0 || s.categories == nil {
		return ""
	}

	title, err := s.categories.TitleByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Err(err).Int64("category_id", id).Msg("failed to load category title")
		}
		return ""
	}
	return title
}
