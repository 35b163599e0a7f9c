package handlers

import (
	"context"
	"net/http"

	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/models"
)

// FlashPusher queues a flash message for a session.
type FlashPusher interface {
	Push(ctx context.Context, sessionID string, msg models.FlashMessage) error
}

// NewHomeHandler returns the handler for the start page.
func NewHomeHandler(flash FlashDrainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, flash, "index", "Home", nil)
	}
}

// NewAboutHandler returns the handler for the about page.
func NewAboutHandler(flash FlashDrainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, flash, "about", "About us", "This is the about page.")
	}
}

// NewContactPageHandler returns the handler for the contact form page.
func NewContactPageHandler(flash FlashDrainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, flash, "contact", "Contact", nil)
	}
}

// NewContactSubmitHandler handles the contact form. Sending mail is not
// wired up yet, so the submission only leaves a flash message behind.
func NewContactSubmitHandler(flash FlashPusher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middlewares.SessionIDFromContext(r.Context())
		flash.Push(r.Context(), sessionID, models.FlashMessage{
			Category: models.FlashError,
			Text:     "Sending is not implemented yet",
		})
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
	}
}
