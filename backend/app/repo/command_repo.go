package repo

import (
	"time"

	"webguard/backend/app/models"

	"gorm.io/gorm"
)

type CommandRepository struct {
	db *gorm.DB
}

func NewCommandRepository(db *gorm.DB) *CommandRepository {
	return &CommandRepository{db: db}
}

func (r *CommandRepository) Create(cmd *models.PendingCommand) error {
	return r.db.Create(cmd).Error
}

// ListPending returns the pending batch in enqueue order.
func (r *CommandRepository) ListPending() ([]models.PendingCommand, error) {
	var cmds []models.PendingCommand
	err := r.db.Where("status = ?", models.StatusPending).Order("id ASC").Find(&cmds).Error
	return cmds, err
}

// ClearPending marks the whole pending batch as cleared.
func (r *CommandRepository) ClearPending() error {
	now := time.Now()
	return r.db.Model(&models.PendingCommand{}).
		Where("status = ?", models.StatusPending).
		Updates(map[string]any{"status": models.StatusCleared, "cleared_at": &now}).Error
}

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) CountByUsername(username string) (int64, error) {
	var count int64
	return count, r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
}

func (r *UserRepository) Create(u *models.User) error { return r.db.Create(u).Error }

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
