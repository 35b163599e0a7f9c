package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pvolkov2019/user-portal/internal/models"
	"github.com/pvolkov2019/user-portal/internal/password"
	"github.com/pvolkov2019/user-portal/internal/repositories"
	"github.com/pvolkov2019/user-portal/internal/services"
)

// flashWith matches a flash message by category only.
type flashWith struct {
	category string
}

func (m flashWith) Matches(x interface{}) bool {
	msg, ok := x.(models.FlashMessage)
	return ok && msg.Category == m.category
}

func (m flashWith) String() string {
	return fmt.Sprintf("flash message with category %q", m.category)
}

func TestAuthService_Register(t *testing.T) {
	const sessionID = "session-1"

	tests := []struct {
		name      string
		username  string
		password  string
		email     string
		exists    bool
		existsErr error
		saveErr   error
		noStore   bool // validation fails before any store access
		flashCat  string
		wantErr   error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "12345678",
			email:    "alice@example.com",
			flashCat: models.FlashSuccess,
		},
		{
			name:     "password too short",
			username: "alice",
			password: "1234567",
			email:    "alice@example.com",
			noStore:  true,
			flashCat: models.FlashError,
			wantErr:  services.ErrPasswordTooShort,
		},
		{
			name:     "user already exists",
			username: "bob",
			password: "12345678",
			email:    "bob@example.com",
			exists:   true,
			flashCat: models.FlashError,
			wantErr:  services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "12345678",
			email:     "eve@example.com",
			existsErr: errors.New("db error"),
			flashCat:  models.FlashError,
			wantErr:   errors.New("db error"),
		},
		{
			name:     "writer error",
			username: "carol",
			password: "12345678",
			email:    "carol@example.com",
			saveErr:  errors.New("save error"),
			flashCat: models.FlashError,
			wantErr:  errors.New("save error"),
		},
		{
			name:     "insert loses uniqueness race",
			username: "dave",
			password: "12345678",
			email:    "dave@example.com",
			saveErr:  repositories.ErrUserConflict,
			flashCat: models.FlashError,
			wantErr:  services.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockFlash := services.NewMockFlashWriter(ctrl)
			mockToken := services.NewMockTokenGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockFlash, mockToken, nil)

			if !tt.noStore {
				mockReader.EXPECT().
					Exists(gomock.Any(), tt.username, tt.email).
					Return(tt.exists, tt.existsErr)
			}
			if !tt.noStore && !tt.exists && tt.existsErr == nil {
				mockWriter.EXPECT().
					Save(gomock.Any(), tt.username, gomock.Any(), tt.email, gomock.Any()).
					Return(uuid.New(), tt.saveErr)
			}

			// Exactly one flash message per branch.
			mockFlash.EXPECT().
				Push(gomock.Any(), sessionID, flashWith{tt.flashCat}).
				Return(nil)

			err := svc.Register(context.Background(), sessionID, tt.username, tt.username, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Register_HashedPasswordStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockFlash := services.NewMockFlashWriter(ctrl)
	mockToken := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockFlash, mockToken, nil)

	mockReader.EXPECT().
		Exists(gomock.Any(), "alice", "alice@example.com").
		Return(false, nil)

	var storedHash string
	mockWriter.EXPECT().
		Save(gomock.Any(), "alice", "Alice", "alice@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, hash string) (uuid.UUID, error) {
			storedHash = hash
			return uuid.New(), nil
		})

	mockFlash.EXPECT().
		Push(gomock.Any(), "session-1", flashWith{models.FlashSuccess}).
		Return(nil)

	err := svc.Register(context.Background(), "session-1", "alice", "Alice", "alice@example.com", "12345678")
	assert.NoError(t, err)

	// The stored value is a verifiable hash, not the plaintext.
	assert.NotEqual(t, "12345678", storedHash)
	assert.True(t, password.Verify("12345678", storedHash))
}

func TestAuthService_Login(t *testing.T) {
	const sessionID = "session-1"

	hash, err := password.Hash("12345678")
	assert.NoError(t, err)

	userID := uuid.New()
	storedUser := &models.UserDB{
		ID:           userID,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name      string
		username  string
		password  string
		user      *models.UserDB
		readerErr error
		tokenErr  error
		flashCat  string
		wantToken string
		wantErr   error
	}{
		{
			name:      "successful login",
			username:  "alice",
			password:  "12345678",
			user:      storedUser,
			flashCat:  models.FlashSuccess,
			wantToken: "signed-token",
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "12345678",
			user:     nil,
			flashCat: models.FlashError,
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-password",
			user:     storedUser,
			flashCat: models.FlashError,
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			username:  "alice",
			password:  "12345678",
			readerErr: errors.New("db error"),
			flashCat:  models.FlashError,
			wantErr:   errors.New("db error"),
		},
		{
			name:     "token generation error",
			username: "alice",
			password: "12345678",
			user:     storedUser,
			tokenErr: errors.New("sign error"),
			flashCat: models.FlashError,
			wantErr:  errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockFlash := services.NewMockFlashWriter(ctrl)
			mockToken := services.NewMockTokenGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockFlash, mockToken, nil)

			mockReader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.readerErr == nil && tt.password == "12345678" {
				mockToken.EXPECT().
					Generate(gomock.Any(), userID, "alice", "alice@example.com").
					Return(tt.wantToken, tt.tokenErr)
			}

			mockFlash.EXPECT().
				Push(gomock.Any(), sessionID, flashWith{tt.flashCat}).
				Return(nil)

			token, err := svc.Login(context.Background(), sessionID, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_RegisterPublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockFlash := services.NewMockFlashWriter(ctrl)
	mockToken := services.NewMockTokenGenerator(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockFlash, mockToken, mockKafka)

	mockReader.EXPECT().
		Exists(gomock.Any(), "alice", "alice@example.com").
		Return(false, nil)
	mockWriter.EXPECT().
		Save(gomock.Any(), "alice", "Alice", "alice@example.com", gomock.Any()).
		Return(uuid.New(), nil)
	mockFlash.EXPECT().
		Push(gomock.Any(), "session-1", flashWith{models.FlashSuccess}).
		Return(nil)
	mockKafka.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		Return(nil)

	err := svc.Register(context.Background(), "session-1", "alice", "Alice", "alice@example.com", "12345678")
	assert.NoError(t, err)
}
