package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

const (
	keyLastStamp = "last_stamp"
)

// SaveLastStamp saves the last eventstamp issued or observed by this device
func (s *Storage) SaveLastStamp(ctx context.Context, stamp string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if bucket == nil {
			return fmt.Errorf("meta bucket not found")
		}

		if err := bucket.Put([]byte(keyLastStamp), []byte(stamp)); err != nil {
			return fmt.Errorf("failed to save last stamp: %w", err)
		}

		return nil
	})
}

// GetLastStamp retrieves the last persisted eventstamp
// Returns empty string if the clock has never been persisted
func (s *Storage) GetLastStamp(ctx context.Context) (string, error) {
	var stamp string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if bucket == nil {
			return fmt.Errorf("meta bucket not found")
		}

		data := bucket.Get([]byte(keyLastStamp))
		if data == nil {
			// Часы еще не сохранялись - начинаем с нуля
			stamp = ""
			return nil
		}

		stamp = string(data)
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get last stamp: %w", err)
	}

	return stamp, nil
}
