package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophjournal/internal/models"
	"github.com/iudanet/gophjournal/internal/server/storage"
)

var _ storage.BackupStorage = (*Storage)(nil)

// SaveBackup creates or replaces the user's backup blob
func (s *Storage) SaveBackup(ctx context.Context, userID, data string) error {
	query := `
		INSERT INTO backups (user_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, userID, data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save backup: %w", err)
	}

	return nil
}

// GetBackup retrieves the user's backup blob
func (s *Storage) GetBackup(ctx context.Context, userID string) (*models.Backup, error) {
	query := `
		SELECT user_id, data, updated_at
		FROM backups
		WHERE user_id = ?
	`

	backup := &models.Backup{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&backup.UserID,
		&backup.Data,
		&backup.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBackupNotFound
		}
		return nil, fmt.Errorf("failed to get backup: %w", err)
	}

	return backup, nil
}
