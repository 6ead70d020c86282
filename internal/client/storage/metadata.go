package storage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastStamp saves the last eventstamp issued or observed by this device
	// Persisted so the hybrid clock survives restarts
	SaveLastStamp(ctx context.Context, stamp string) error

	// GetLastStamp retrieves the last persisted eventstamp
	// Returns empty string if the clock has never been persisted
	GetLastStamp(ctx context.Context) (string, error)
}
