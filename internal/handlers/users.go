package handlers

import (
	"context"
	"net/http"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/models"
)

// UsersLister defines the interface that the users service must implement.
type UsersLister interface {
	List(ctx context.Context) ([]models.UserListItem, error)
}

// FlashStore combines the push and drain sides of the flash queue.
type FlashStore interface {
	FlashPusher
	FlashDrainer
}

// NewUsersHandler returns the handler for the user list page. A store
// failure redirects home with a generic error flash.
func NewUsersHandler(svc UsersLister, flash FlashStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to load user list", "err", err)
			sessionID := middlewares.SessionIDFromContext(r.Context())
			flash.Push(r.Context(), sessionID, models.FlashMessage{
				Category: models.FlashError,
				Text:     "Failed to load users",
			})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		renderPage(w, r, flash, "users", "Users", users)
	}
}
