package repo

import (
	"webguard/backend/app/models"

	"gorm.io/gorm"
)

type TrackedURLRepository struct {
	db *gorm.DB
}

func NewTrackedURLRepository(db *gorm.DB) *TrackedURLRepository {
	return &TrackedURLRepository{db: db}
}

func (r *TrackedURLRepository) Create(u *models.TrackedURL) error {
	return r.db.Create(u).Error
}

// ListRecent returns the newest rows first, capped at limit.
func (r *TrackedURLRepository) ListRecent(limit int) ([]models.TrackedURL, error) {
	if limit <= 0 {
		limit = 50
	}
	var urls []models.TrackedURL
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&urls).Error
	return urls, err
}

func (r *TrackedURLRepository) Count() (int64, error) {
	var count int64
	return count, r.db.Model(&models.TrackedURL{}).Count(&count).Error
}
