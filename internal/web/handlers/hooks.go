// Package handlers implements the HTTP endpoints the host calls.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/blockedby/newsletter-light/internal/hooks"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
)

// MessageContentSavedFailed is returned to the caller when the hook fails.
const MessageContentSavedFailed = "The newsletter could not be processed. Please contact the site administrator."

// HookDispatcher runs hook handlers.
type HookDispatcher interface {
	Dispatch(ctx context.Context, event hooks.Event, payload any) (any, error)
}

// HooksHandler handles host callbacks.
type HooksHandler struct {
	hooks HookDispatcher
	log   *logger.Logger
}

// NewHooksHandler creates a new HooksHandler.
func NewHooksHandler(hooks HookDispatcher, log *logger.Logger) *HooksHandler {
	return &HooksHandler{
		hooks: hooks,
		log:   log,
	}
}

// ContentSaved runs the content-after-save hook for the posted event.
func (h *HooksHandler) ContentSaved(w http.ResponseWriter, r *http.Request) {
	var ev models.NotificationEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event: " + err.Error()})
		return
	}

	out, err := h.hooks.Dispatch(r.Context(), hooks.EventContentAfterSave, ev)
	if err != nil {
		h.log.Error().Err(err).Str("context", string(ev.Context)).Msg("content-saved hook failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": MessageContentSavedFailed})
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		_ = err // Client disconnected
	}
}
