package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// FlashCookie holds the message shown on the page after a redirect.
const FlashCookie = "newsletter_flash"

// Flash is a one-shot page message.
type Flash struct {
	Type    string
	Message string
}

// setFlash stores f for the next page view.
func setFlash(w http.ResponseWriter, f Flash) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    f.Type + "." + base64.RawURLEncoding.EncodeToString([]byte(f.Message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message.
func popFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	c, err := r.Cookie(FlashCookie)
	if err != nil {
		return Flash{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:   FlashCookie,
		Path:   "/",
		MaxAge: -1,
	})

	kind, encoded, ok := strings.Cut(c.Value, ".")
	if !ok {
		return Flash{}, false
	}
	msg, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Flash{}, false
	}

	return Flash{Type: kind, Message: string(msg)}, true
}
