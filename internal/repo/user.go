package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/diary/internal/models"
	"gorm.io/gorm"
)

// CreateUserIfNotExists inserts u unless its username is taken. The unique
// index closes the window between the check and the insert.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserAlreadyExist
		}
		return tx.Create(u).Error
	})
	if err != nil && !errors.Is(err, ErrUserAlreadyExist) && isUniqueViolation(err) {
		return ErrUserAlreadyExist
	}
	return err
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
