package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/blockedby/newsletter-light/internal/hooks"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/unsubscribe"
)

// HookDispatcher runs hook handlers.
type HookDispatcher interface {
	Dispatch(ctx context.Context, event hooks.Event, payload any) (any, error)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{if .Flash.Message}}<div class="alert alert-{{.Flash.Type}}">{{.Flash.Message}}</div>{{end}}
<main>{{.Title}}</main>
</body>
</html>
`))

// Pages serves site pages and runs the after-render hook on every view.
type Pages struct {
	hooks    HookDispatcher
	sessions *Sessions
	title    string
	log      *logger.Logger
}

// NewPages creates a new Pages.
func NewPages(hooks HookDispatcher, sessions *Sessions, title string, log *logger.Logger) *Pages {
	return &Pages{
		hooks:    hooks,
		sessions: sessions,
		title:    title,
		log:      log,
	}
}

// Middleware dispatches EventAfterRender for the request. A handled
// request is redirected with a flash message instead of being served.
func (p *Pages) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out, err := p.hooks.Dispatch(r.Context(), hooks.EventAfterRender, hooks.PageRequest{
			URL:      r.URL,
			Identity: p.sessions.Identify(r),
		})
		if err != nil {
			p.log.Error().Err(err).Str("path", r.URL.Path).Msg("page hook failed")
			next.ServeHTTP(w, r)
			return
		}

		res, ok := out.(unsubscribe.Result)
		if !ok || !res.Handled {
			next.ServeHTTP(w, r)
			return
		}

		setFlash(w, Flash{Type: string(res.Type), Message: res.Message})
		http.Redirect(w, r, res.RedirectURL, http.StatusSeeOther)
	})
}

// Render writes the page with any pending flash message.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request) {
	flash, _ := popFlash(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, struct {
		Title string
		Flash Flash
	}{
		Title: p.title,
		Flash: flash,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("failed to render page")
	}
}
