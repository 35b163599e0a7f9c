package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/models"
	"github.com/pvolkov2019/user-portal/internal/password"
	"github.com/pvolkov2019/user-portal/internal/repositories"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Error variables
var (
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Flash texts shown on the next rendered page.
const (
	flashPasswordTooShort = "Password must be at least 8 characters long"
	flashUserExists       = "Username or email already taken"
	flashRegistered       = "Registration successful! Please log in."
	flashBadCredentials   = "Invalid username or password"
	flashLoggedIn         = "Successfully logged in!"
	flashInternalError    = "Something went wrong, please try again"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, name, email, passwordHash string) (uuid.UUID, error)
}

// FlashWriter queues flash messages for a session.
type FlashWriter interface {
	Push(ctx context.Context, sessionID string, msg models.FlashMessage) error
}

// TokenGenerator defines an interface for issuing signed tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, username, email string) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuthService handles registration and login. Every branch of both
// operations queues exactly one flash message for the caller's session;
// the caller only decides where to redirect.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	flash       FlashWriter
	token       TokenGenerator
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance. kafkaWriter may be
// nil, in which case event publishing is skipped.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	flash FlashWriter,
	token TokenGenerator,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		flash:       flash,
		token:       token,
		kafkaWriter: kafkaWriter,
	}
}

// pushFlash queues a flash message, logging failures instead of
// propagating them: a broken flash queue must not change the outcome of
// the operation it decorates.
func (svc *AuthService) pushFlash(ctx context.Context, sessionID, category, text string) {
	err := svc.flash.Push(ctx, sessionID, models.FlashMessage{Category: category, Text: text})
	if err != nil {
		logger.Log.Errorw("failed to push flash message", "session_id", sessionID, "err", err)
	}
}

// publishEvent publishes an auth event to Kafka best-effort.
func (svc *AuthService) publishEvent(ctx context.Context, eventType string, userID uuid.UUID, username string) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", eventType)
		return
	}

	event := models.AuthEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    userID.String(),
		Username:  username,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "event_id", event.EventID, "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "event_id", event.EventID, "err", err)
	} else {
		logger.Log.Infow("auth event published", "event_id", event.EventID, "type", eventType)
	}
}

// Register creates a new user account. The password is validated before
// any store access; username and email must not already be taken.
func (svc *AuthService) Register(ctx context.Context, sessionID, username, name, email, plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		svc.pushFlash(ctx, sessionID, models.FlashError, flashPasswordTooShort)
		return ErrPasswordTooShort
	}

	exists, err := svc.reader.Exists(ctx, username, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashInternalError)
		return err
	}
	if exists {
		svc.pushFlash(ctx, sessionID, models.FlashError, flashUserExists)
		return ErrUserAlreadyExists
	}

	hashed, err := password.Hash(plaintext)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashInternalError)
		return err
	}

	userID, err := svc.writer.Save(ctx, username, name, email, hashed)
	if errors.Is(err, repositories.ErrUserConflict) {
		// Lost the race against a concurrent registration; the unique
		// constraint settled it.
		svc.pushFlash(ctx, sessionID, models.FlashError, flashUserExists)
		return ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashInternalError)
		return err
	}

	svc.pushFlash(ctx, sessionID, models.FlashSuccess, flashRegistered)
	svc.publishEvent(ctx, models.EventUserRegistered, userID, username)

	return nil
}

// Login authenticates a user and returns a signed token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, sessionID, username, plaintext string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashInternalError)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("login for unknown username", "username", username)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashBadCredentials)
		return "", ErrInvalidCredentials
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		logger.Log.Infow("invalid credentials", "username", username)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashBadCredentials)
		return "", ErrInvalidCredentials
	}

	token, err := svc.token.Generate(ctx, user.ID, user.Username, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		svc.pushFlash(ctx, sessionID, models.FlashError, flashInternalError)
		return "", err
	}

	svc.pushFlash(ctx, sessionID, models.FlashSuccess, flashLoggedIn)
	svc.publishEvent(ctx, models.EventUserLoggedIn, user.ID, user.Username)

	return token, nil
}
