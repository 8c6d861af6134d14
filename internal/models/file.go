package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferFile is one uploaded file inside a transfer. A file cannot outlive
// its transfer. RelativePath carries the folder structure the client uploaded
// ("photos/a.jpg"); it is display-only and never influences storage layout.
type TransferFile struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TransferID   uuid.UUID `json:"transferId" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	RelativePath string    `json:"relativePath"`
	StorageKey   string    `json:"-" gorm:"not null"` // opaque blob-store key, never exposed
	SizeBytes    int64     `json:"sizeBytes" gorm:"not null"`
	MimeType     string    `json:"mimeType"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (f *TransferFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
