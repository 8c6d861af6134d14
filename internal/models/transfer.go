package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer is one shareable batch of files. The short code is the only
// reference ever handed to recipients; internal IDs stay internal.
// Rows are immutable after creation except for DownloadCount, which only
// the conditional increment in the repository may touch.
type Transfer struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ShortCode     string         `json:"shortCode" gorm:"uniqueIndex;not null"`
	OwnerID       uuid.UUID      `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title         string         `json:"title" gorm:"not null"`
	Description   string         `json:"description"`
	PasswordHash  *string        `json:"-" gorm:"type:text"` // nil = no password gate
	ExpiresAt     *time.Time     `json:"expiresAt"`          // nil = never expires
	MaxDownloads  *int           `json:"maxDownloads"`       // nil = unlimited
	DownloadCount int            `json:"downloadCount" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	Files         []TransferFile `json:"files" gorm:"foreignKey:TransferID"`
}

func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the transfer is password-gated.
func (t *Transfer) HasPassword() bool {
	return t.PasswordHash != nil && *t.PasswordHash != ""
}

// ExpiredAt reports whether the transfer is expired at the given instant.
func (t *Transfer) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
