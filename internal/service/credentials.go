package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/diary/internal/events"
	"github.com/Skotchmaster/diary/internal/hash"
	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/models"
	"github.com/Skotchmaster/diary/internal/repo"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// CredentialStore owns user records and their password hashes. Users leaving
// this type never carry the hash.
type CredentialStore struct {
	Repo   UserRepo
	Cost   int
	Events EventPublisher
	Now    func() time.Time
}

func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *CredentialStore) Register(ctx context.Context, username, password string) (models.User, error) {
	l := logging.FromContext(ctx).With("svc", "credentials.register")

	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return models.User{}, validationError("Username and password are required.")
	}
	if len(password) > hash.MaxPasswordBytes {
		return models.User{}, validationError("Password must be at most 72 bytes.")
	}

	pwHash, err := hash.HashPassword(password, s.Cost)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: pwHash,
		CreatedAt:    now(s.Now),
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 400, "reason", "user already exist", "username", username)
			return models.User{}, ErrDuplicateUsername
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return models.User{}, storeError("create user", err)
	}

	publish(ctx, s.Events, events.Event{
		Type:       events.UserRegistered,
		UserID:     user.ID,
		Username:   user.Username,
		OccurredAt: user.CreatedAt,
	})

	user.PasswordHash = ""
	return user, nil
}

// FindByUsername reports found=false with a nil error when no such user exists.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	user, found, err := s.lookup(ctx, username)
	if err != nil || !found {
		return models.User{}, found, err
	}
	user.PasswordHash = ""
	return user, true, nil
}

// Authenticate checks password against the stored hash of username.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, found, err := s.lookup(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}

	ok, err := hash.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return models.User{}, storeError("check password", err)
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *CredentialStore) lookup(ctx context.Context, username string) (models.User, bool, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return models.User{}, false, nil
	}
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, storeError("find user", err)
	}
	return *user, true, nil
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}
