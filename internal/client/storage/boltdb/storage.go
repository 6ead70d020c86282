package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophjournal/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth     = []byte("auth")
	bucketMeta     = []byte("meta")
	bucketNotes    = []byte("notes")
	bucketTasks    = []byte("tasks")
	bucketComments = []byte("comments")
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

// Интерфейсные проверки: Storage реализует все клиентские контракты хранилища
var (
	_ storage.TxStore         = (*Storage)(nil)
	_ storage.AuthStorage     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketAuth, bucketMeta, bucketNotes, bucketTasks, bucketComments}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// WithTransaction runs fn against a transactional Store view.
// Все записи внутри fn коммитятся одной транзакцией BoltDB:
// слияние снапшота либо применяется целиком, либо не применяется вовсе.
func (s *Storage) WithTransaction(ctx context.Context, fn func(storage.Store) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

// view выполняет читающую операцию через одноразовый txStore
func (s *Storage) view(fn func(*txStore) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

// update выполняет пишущую операцию через одноразовый txStore
func (s *Storage) update(fn func(*txStore) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

// txStore implements storage.Store on top of a single open BoltDB transaction
type txStore struct {
	tx *bbolt.Tx
}

var _ storage.Store = (*txStore)(nil)
