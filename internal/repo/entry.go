package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/diary/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateEntry(ctx context.Context, e *models.DiaryEntry) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *GormRepo) ListEntries(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	items := make([]models.DiaryEntry, 0)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error) {
	return r.firstOwned(r.DB.WithContext(ctx), id, userID)
}

func (r *GormRepo) UpdateEntry(ctx context.Context, id, userID, title, content string) (*models.DiaryEntry, error) {
	var entry *models.DiaryEntry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := r.firstOwned(tx, id, userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(found).Updates(map[string]any{
			"title":      title,
			"content":    content,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		found.Title, found.Content, found.UpdatedAt = title, content, now
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *GormRepo) DeleteEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error) {
	var entry *models.DiaryEntry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := r.firstOwned(tx, id, userID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.DiaryEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SearchEntries matches query case-insensitively as a literal substring of
// title or content.
func (r *GormRepo) SearchEntries(ctx context.Context, userID, query string, offset, limit int) (int64, []models.DiaryEntry, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	scope := func() *gorm.DB {
		return r.DB.WithContext(ctx).
			Model(&models.DiaryEntry{}).
			Where("user_id = ?", userID).
			Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.DiaryEntry, 0, limit)
	if err := scope().
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) firstOwned(tx *gorm.DB, id, userID string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
