package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/diary/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrUserAlreadyExist = errors.New("user already exist")
)

// Store is the full persistence contract shared by the gorm and mongo backends.
type Store interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateEntry(ctx context.Context, e *models.DiaryEntry) error
	ListEntries(ctx context.Context, userID string) ([]models.DiaryEntry, error)
	GetEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id, userID, title, content string) (*models.DiaryEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error)
	SearchEntries(ctx context.Context, userID, query string, offset, limit int) (int64, []models.DiaryEntry, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type GormRepo struct {
	DB *gorm.DB
}

var _ Store = (*GormRepo)(nil)

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.User{}, &models.DiaryEntry{})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
