package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/pvolkov2019/user-portal/internal/middlewares"
	"github.com/pvolkov2019/user-portal/internal/services"
)

func postForm(t *testing.T, target, sessionID string, form url.Values) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(middlewares.WithSessionID(req.Context(), sessionID))
}

func TestRegisterHandler(t *testing.T) {
	form := url.Values{
		"username": {"alice"},
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"12345678"},
	}

	tests := []struct {
		name             string
		svcErr           error
		expectedLocation string
	}{
		{
			name:             "success redirects home",
			svcErr:           nil,
			expectedLocation: "/",
		},
		{
			name:             "weak password redirects back",
			svcErr:           services.ErrPasswordTooShort,
			expectedLocation: "/register",
		},
		{
			name:             "conflict redirects back",
			svcErr:           services.ErrUserAlreadyExists,
			expectedLocation: "/register",
		},
		{
			name:             "internal error redirects back",
			svcErr:           errors.New("db error"),
			expectedLocation: "/register",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockRegisterer(ctrl)
			mockSvc.EXPECT().
				Register(gomock.Any(), "session-1", "alice", "Alice", "alice@example.com", "12345678").
				Return(tt.svcErr)

			req := postForm(t, "/register", "session-1", form)
			rr := httptest.NewRecorder()

			NewRegisterHandler(mockSvc)(rr, req)

			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
			assert.Empty(t, rr.Body.String(), "redirect must not carry a page body")
		})
	}
}

func TestRegisterPageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFlash := NewMockFlashStore(ctrl)
	mockFlash.EXPECT().
		Drain(gomock.Any(), "session-1").
		Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req = req.WithContext(middlewares.WithSessionID(req.Context(), "session-1"))
	rr := httptest.NewRecorder()

	NewRegisterPageHandler(mockFlash)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/register"`)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
}
