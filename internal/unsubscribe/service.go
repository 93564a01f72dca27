package unsubscribe

import (
	"context"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
	"github.com/blockedby/newsletter-light/internal/render"
)

// Query parameters consumed by the unsubscribe flow.
const (
	ParamUnsubscribe = "unsubscribe"
	ParamUserID      = "userid"
	ParamToken       = "token"
)

// MessageType classifies the flash message shown after the redirect.
type MessageType string

// Flash message types.
const (
	MessageTypeInfo  MessageType = "message"
	MessageTypeError MessageType = "error"
)

// User-facing messages.
const (
	MessageUnsubscribed    = "You have been unsubscribed from the newsletter."
	MessageCantUnsubscribe = "We could not unsubscribe you. Please contact the site administrator."
	MessageMailNotSent     = "The notification mail could not be sent. Please contact the site administrator."
)

// GroupStore removes users from groups.
type GroupStore interface {
	RemoveMember(ctx context.Context, userID, groupID int64) error
}

// UserLookup loads users by id.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// MailSender delivers a single message.
type MailSender interface {
	Send(ctx context.Context, msg models.Message) error
}

// EventPublisher announces completed unsubscribes. Optional.
type EventPublisher interface {
	PublishUnsubscribed(ctx context.Context, userID, groupID int64) error
}

// Result describes what the caller should do after Handle.
type Result struct {
	// Handled is false when the request was not an authorized unsubscribe;
	// the caller then continues as if nothing happened.
	Handled     bool
	RedirectURL string
	Message     string
	Type        MessageType
}

// Service runs the unsubscribe flow.
type Service struct {
	opts       config.Options
	site       render.Site
	authorizer Authorizer
	groups     GroupStore
	users      UserLookup
	mailer     MailSender
	publisher  EventPublisher
	log        *logger.Logger
}

// NewService creates a new unsubscribe Service. publisher may be nil.
func NewService(
	opts config.Options,
	site render.Site,
	authorizer Authorizer,
	groups GroupStore,
	users UserLookup,
	mailer MailSender,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		opts:       opts,
		site:       site,
		authorizer: authorizer,
		groups:     groups,
		users:      users,
		mailer:     mailer,
		publisher:  publisher,
		log:        log,
	}
}

// ParseRequest extracts an unsubscribe request from query parameters.
// ok is false when the parameters do not form a request worth checking.
func (s *Service) ParseRequest(query url.Values, identity *models.User) (Request, bool) {
	if query.Get(ParamUnsubscribe) != "1" {
		return Request{}, false
	}

	userID, err := strconv.ParseInt(query.Get(ParamUserID), 10, 64)
	if err != nil || userID <= 0 {
		return Request{}, false
	}

	token := query.Get(ParamToken)
	if token == "" && s.authorizer.RequiresToken() {
		return Request{}, false
	}

	return Request{UserID: userID, Token: token, Identity: identity}, true
}

// Handle processes an inbound page request. current is the requested URL.
func (s *Service) Handle(ctx context.Context, current *url.URL, identity *models.User) Result {
	req, ok := s.ParseRequest(current.Query(), identity)
	if !ok {
		return Result{}
	}

	if !s.authorizer.Authorize(ctx, req) {
		s.log.Warn().Int64("user_id", req.UserID).Msg("unauthorized unsubscribe request ignored")
		return Result{}
	}

	res := Result{
		Handled:     true,
		RedirectURL: ReturnURL(current),
	}

	if err := s.removeFromGroup(ctx, req.UserID); err != nil {
		s.log.Error().Err(err).Int64("user_id", req.UserID).Msg("failed to remove user from group")
		res.Message = MessageCantUnsubscribe
		res.Type = MessageTypeError
		return res
	}

	res.Message = MessageUnsubscribed
	res.Type = MessageTypeInfo

	if s.publisher != nil {
		if err := s.publisher.PublishUnsubscribed(ctx, req.UserID, s.opts.UserGroup); err != nil {
			s.log.Warn().Err(err).Int64("user_id", req.UserID).Msg("failed to publish unsubscribe event")
		}
	}

	if !s.sendConfirmation(ctx, req.UserID) {
		res.Message = MessageMailNotSent
		res.Type = MessageTypeError
	}

	return res
}

func (s *Service) removeFromGroup(ctx context.Context, userID int64) error {
	if !s.opts.HasGroup() {
		return errNoGroup
	}
	if err := s.groups.RemoveMember(ctx, userID, s.opts.UserGroup); err != nil {
		return err
	}

	s.log.Info().
		Int64("user_id", userID).
		Int64("group_id", s.opts.UserGroup).
		Msg("user unsubscribed")
	return nil
}

// sendConfirmation mails the user and, when enabled, the unsubscribe admins.
// It stops at the first failed delivery.
func (s *Service) sendConfirmation(ctx context.Context, userID int64) bool {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to load unsubscribed user")
		return false
	}

	params := render.Params{
		Site:  s.site,
		Actor: user,
	}

	err = s.mailer.Send(ctx, models.Message{
		To:       user.Email,
		Subject:  render.Subject(s.opts.UnsubscribedSubject, params),
		HTMLBody: render.Body(s.opts.UnsubscribedBody, params),
	})
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to send unsubscribe confirmation")
		return false
	}

	if !s.opts.MailUnsubscribe {
		return true
	}

	subject := render.Subject(s.opts.UnsubscribedAdminSubject, params)
	body := render.Body(s.opts.UnsubscribedAdminBody, params)

	for _, addr := range config.SplitAddresses(s.opts.UnsubscribeEmails) {
		err := s.mailer.Send(ctx, models.Message{To: addr, Subject: subject, HTMLBody: body})
		if err != nil {
			s.log.Error().Err(err).Str("to", addr).Msg("failed to send unsubscribe admin notice")
			return false
		}
	}

	return true
}

// ReturnURL strips the parameters consumed by the flow from u and returns
// a site-relative path. Scheme and host of u are never carried over.
func ReturnURL(u *url.URL) string {
	q := u.Query()
	q.Del(ParamUnsubscribe)
	q.Del(ParamUserID)
	q.Del(ParamToken)

	p := strings.ReplaceAll(u.Path, "\\", "/")
	p = path.Clean("/" + strings.TrimLeft(p, "/"))

	target := (&url.URL{Path: p, RawQuery: q.Encode()}).String()
	if parsed, err := url.Parse(target); err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return target
}
