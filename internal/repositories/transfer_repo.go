package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sendry-io/sendry-server/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers unknown short codes, transfer IDs and file IDs. A
	// deleted transfer is indistinguishable from one that never existed.
	ErrNotFound = errors.New("transfer not found")

	// ErrConflict signals that IncrementDownloadCount lost a compare-and-swap
	// race; the caller should re-read and re-evaluate.
	ErrConflict = errors.New("download count changed concurrently")
)

// TransferRepository owns persistence of transfers, their files and access
// events.
type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create writes the transfer row together with all of its file rows in a
// single transaction; either everything is visible afterwards or nothing is.
func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			return fmt.Errorf("creating transfer: %w", err)
		}
		return nil
	})
}

// FindByShortCode loads a transfer and its files by public short code.
func (r *TransferRepository) FindByShortCode(ctx context.Context, code string) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).Preload("Files").
		Where("short_code = ?", code).
		First(&transfer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// FindByID loads a transfer and its files by internal ID.
func (r *TransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).Preload("Files").
		Where("id = ?", id).
		First(&transfer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// FindFileByID loads a single transfer file, for download streaming.
func (r *TransferRepository) FindFileByID(ctx context.Context, id uuid.UUID) (*models.TransferFile, error) {
	var file models.TransferFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByOwner returns all transfers owned by a user, newest first, files
// preloaded.
func (r *TransferRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.WithContext(ctx).Preload("Files").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindExpired returns transfers whose expiry is in the past, files preloaded.
// Used by the expiry sweeper.
func (r *TransferRepository) FindExpired(ctx context.Context, now time.Time) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.WithContext(ctx).Preload("Files").
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Find(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// Delete removes the transfer row, all of its file rows and all of its
// access events in one transaction.
func (r *TransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", id).Delete(&models.AccessEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transfer_id = ?", id).Delete(&models.TransferFile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Transfer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ShortCodeExists reports whether a short code is already taken.
func (r *TransferRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("short_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementDownloadCount bumps the counter by one only if it still holds
// expectedCurrent. Returns ErrConflict when a concurrent grant got there
// first; the conditional UPDATE makes the check-and-increment atomic.
func (r *TransferRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID, expectedCurrent int) error {
	res := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("id = ? AND download_count = ?", id, expectedCurrent).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// RecordAccess appends an audit event. Purely observational.
func (r *TransferRepository) RecordAccess(ctx context.Context, event *models.AccessEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// AccessEvents returns the audit trail for a transfer, oldest first.
func (r *TransferRepository) AccessEvents(ctx context.Context, transferID uuid.UUID) ([]models.AccessEvent, error) {
	var events []models.AccessEvent
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
