package models

import "time"

// TrackedURL is one visited-page event mirrored from an agent.
type TrackedURL struct {
	ID        uint   `gorm:"primaryKey"`
	URL       string `gorm:"size:2048;not null"`
	Title     string `gorm:"size:512"`
	Domain    string `gorm:"size:255;index"`
	Timestamp time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// PendingCommand is one queued instruction for the agents (queue rows;
// used when no redis queue is configured).
type PendingCommand struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	Payload   string `gorm:"type:text"` // JSON argument
	Status    string `gorm:"size:32;index"` // pending, cleared
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ClearedAt *time.Time
}

const (
	StatusPending = "pending"
	StatusCleared = "cleared"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
