package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessEvent is an append-only audit record written once per granted access.
// It never gates anything; a failed write must not block the grant.
type AccessEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TransferID uuid.UUID `json:"transferId" gorm:"type:uuid;not null;index"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (e *AccessEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
