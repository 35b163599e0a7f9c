package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, sessionID, username, name, email, password string) error
}

// NewRegisterPageHandler returns the handler for the registration form.
func NewRegisterPageHandler(flash FlashDrainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, flash, "register", "Registration", nil)
	}
}

// NewRegisterHandler handles the registration form submission. Every
// outcome redirects; the flash message queued by the service is what
// the user sees on the target page. The entered password is never
// echoed back.
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}

		sessionID := middlewares.SessionIDFromContext(r.Context())

		err := svc.Register(r.Context(), sessionID,
			r.PostForm.Get("username"),
			r.PostForm.Get("name"),
			r.PostForm.Get("email"),
			r.PostForm.Get("password"),
		)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordTooShort),
				errors.Is(err, services.ErrUserAlreadyExists):
				// expected outcomes, already flashed by the service
			default:
				logger.Log.Errorw("registration failed", "err", err)
			}
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
