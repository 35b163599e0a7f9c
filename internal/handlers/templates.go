package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// FlashDrainer reads and clears the flash queue of a session.
type FlashDrainer interface {
	Drain(ctx context.Context, sessionID string) ([]models.FlashMessage, error)
}

// pageData is the payload every page template receives.
type pageData struct {
	Title   string
	Flashes []models.FlashMessage
	Data    any
}

// renderPage executes the named page template with the session's
// drained flash messages. A failing flash queue degrades to a page
// without messages.
func renderPage(w http.ResponseWriter, r *http.Request, flash FlashDrainer, name, title string, data any) {
	sessionID := middlewares.SessionIDFromContext(r.Context())

	flashes, err := flash.Drain(r.Context(), sessionID)
	if err != nil {
		logger.Log.Errorw("failed to drain flash messages", "session_id", sessionID, "err", err)
		flashes = nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, pageData{
		Title:   title,
		Flashes: flashes,
		Data:    data,
	}); err != nil {
		logger.Log.Errorw("failed to render template", "template", name, "err", err)
	}
}
