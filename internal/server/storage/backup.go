package storage

import (
	"context"

	"github.com/iudanet/gophjournal/internal/models"
)

// BackupStorage defines interface for encrypted snapshot persistence.
// Each user owns exactly one blob; every push replaces it whole.
type BackupStorage interface {
	// SaveBackup creates or replaces the user's backup blob
	SaveBackup(ctx context.Context, userID, data string) error

	// GetBackup retrieves the user's backup blob
	// Returns ErrBackupNotFound if user never pushed one
	GetBackup(ctx context.Context, userID string) (*models.Backup, error)
}
