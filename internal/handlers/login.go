package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pvolkov2019/user-portal/internal/jwt"
	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, sessionID, username, password string) (string, error)
}

// NewLoginPageHandler returns the handler for the login form.
func NewLoginPageHandler(flash FlashDrainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, flash, "login", "Login", nil)
	}
}

// NewLoginHandler handles the login form submission. On success the
// signed token is set as an HTTP-only cookie whose max-age matches the
// token TTL; no cookie is set on failure.
func NewLoginHandler(svc Loginer, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sessionID := middlewares.SessionIDFromContext(r.Context())

		token, err := svc.Login(r.Context(), sessionID,
			r.PostForm.Get("username"),
			r.PostForm.Get("password"),
		)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidCredentials) {
				logger.Log.Errorw("login failed", "err", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     jwt.CookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(tokenTTL.Seconds()),
			HttpOnly: true,
		})

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
