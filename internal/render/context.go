package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/blockedby/newsletter-light/internal/models"
)

// Site describes the public site the mails link to.
type Site struct {
	base *url.URL
}

// NewSite parses the site base URL.
func NewSite(baseURL string) (Site, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Site{}, fmt.Errorf("parse site url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Site{}, fmt.Errorf("site url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return Site{base: u}, nil
}

// Host returns host[:port] of the site, used for the [URL] token.
func (s Site) Host() string {
	if s.base == nil {
		return ""
	}
	return s.base.Host
}

// FrontendBase returns the public base URL with any administrator/ segment removed.
func (s Site) FrontendBase() string {
	if s.base == nil {
		return ""
	}
	u := *s.base
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.Replace(u.Path, "administrator/", "", 1)
	return u.String()
}

// ArticleLink returns the deep link to an article.
func (s Site) ArticleLink(id int64) string {
	return s.FrontendBase() + "index.php?option=com_content&view=article&id=" + strconv.FormatInt(id, 10)
}

// UnsubscribeURL builds the one-click unsubscribe link. The token is omitted
// when empty, which is the form used by session-authorized unsubscribes.
func (s Site) UnsubscribeURL(userID int64, token string) string {
	link := s.FrontendBase() + "?unsubscribe=1&userid=" + strconv.FormatInt(userID, 10)
	if token != "" {
		link += "&token=" + url.QueryEscape(token)
	}
	return link
}

// Params carries the optional inputs a Context is built from.
// Nil or empty fields leave their tokens unset.
type Params struct {
	Site           Site
	Actor          *models.User
	Receiver       *models.User
	Article        *models.Article
	CategoryName   string
	UnsubscribeURL string
}

// SubjectContext returns the tokens available in subjects.
func SubjectContext(p Params) Context {
	ctx := Context{
		TokenURL: p.Site.Host(),
	}

	if p.Actor != nil {
		ctx[TokenUsername] = p.Actor.Username
		ctx[TokenName] = p.Actor.Name
	}
	if p.Receiver != nil {
		ctx[TokenReceiverUsername] = p.Receiver.Username
		ctx[TokenReceiverName] = p.Receiver.Name
	}
	if p.Article != nil {
		ctx[TokenTitle] = p.Article.Title
	}

	return ctx
}

// BodyContext returns the tokens available in bodies.
func BodyContext(p Params) Context {
	ctx := SubjectContext(p)

	if p.Article != nil {
		ctx[TokenCategory] = p.CategoryName
		ctx[TokenIntroText] = xhtmlBreaks(p.Article.IntroText)
		ctx[TokenFullText] = ComposeFullText(p.Article.IntroText, p.Article.FullText)
		ctx[TokenLink] = p.Site.ArticleLink(p.Article.ID)
	}
	if p.UnsubscribeURL != "" {
		ctx[TokenUnsubscribeURL] = p.UnsubscribeURL
	}

	return ctx
}

// Subject renders a subject template.
func Subject(tmpl string, p Params) string {
	return Render(tmpl, SubjectContext(p))
}

// Body renders a body template after normalizing its line breaks.
func Body(tmpl string, p Params) string {
	return Render(NormalizeLineBreaks(tmpl), BodyContext(p))
}
