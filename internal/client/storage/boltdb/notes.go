package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/models"
)

// SaveNote stores or overwrites a note verbatim
func (t *txStore) SaveNote(ctx context.Context, note *models.Note) error {
	bucket := t.tx.Bucket(bucketNotes)
	if bucket == nil {
		return fmt.Errorf("notes bucket not found")
	}

	// Сериализуем заметку в JSON
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	// Сохраняем по ID
	if err := bucket.Put([]byte(note.ID), data); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	return nil
}

// GetNote retrieves a note by ID, tombstones included
func (t *txStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	bucket := t.tx.Bucket(bucketNotes)
	if bucket == nil {
		return nil, fmt.Errorf("notes bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrNoteNotFound
	}

	note := &models.Note{}
	if err := json.Unmarshal(data, note); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}

	return note, nil
}

// ListNotes returns all non-deleted notes ordered by creation time descending
func (t *txStore) ListNotes(ctx context.Context) ([]*models.Note, error) {
	bucket := t.tx.Bucket(bucketNotes)
	if bucket == nil {
		return nil, fmt.Errorf("notes bucket not found")
	}

	var notes []*models.Note

	// Итерируемся по всем заметкам
	err := bucket.ForEach(func(k, v []byte) error {
		note := &models.Note{}
		if err := json.Unmarshal(v, note); err != nil {
			return fmt.Errorf("failed to unmarshal note: %w", err)
		}

		// Фильтруем удаленные
		if !note.Deleted {
			notes = append(notes, note)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Новые заметки сверху
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt > notes[j].CreatedAt
	})

	return notes, nil
}

// AllNotes returns every note including soft-deleted ones
func (t *txStore) AllNotes(ctx context.Context) ([]*models.Note, error) {
	bucket := t.tx.Bucket(bucketNotes)
	if bucket == nil {
		return nil, fmt.Errorf("notes bucket not found")
	}

	var notes []*models.Note

	err := bucket.ForEach(func(k, v []byte) error {
		note := &models.Note{}
		if err := json.Unmarshal(v, note); err != nil {
			return fmt.Errorf("failed to unmarshal note: %w", err)
		}

		notes = append(notes, note)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// DeleteNote marks note as deleted (soft delete for snapshot sync)
func (t *txStore) DeleteNote(ctx context.Context, id, stamp, updatedAt string) error {
	bucket := t.tx.Bucket(bucketNotes)
	if bucket == nil {
		return fmt.Errorf("notes bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return storage.ErrNoteNotFound
	}

	note := &models.Note{}
	if err := json.Unmarshal(data, note); err != nil {
		return fmt.Errorf("failed to unmarshal note: %w", err)
	}

	// Помечаем как удаленную и обновляем отметку времени,
	// чтобы tombstone победил при слиянии на других устройствах
	// Stamp тоже обновляется: удаление - такая же локальная правка
	note.Deleted = true
	note.Stamp = stamp
	note.UpdatedAt = updatedAt

	updatedData, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	if err := bucket.Put([]byte(id), updatedData); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

// Storage-level delegations: each call runs in its own transaction

func (s *Storage) SaveNote(ctx context.Context, note *models.Note) error {
	return s.update(func(t *txStore) error { return t.SaveNote(ctx, note) })
}

func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var note *models.Note
	err := s.view(func(t *txStore) error {
		var err error
		note, err = t.GetNote(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Storage) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	err := s.view(func(t *txStore) error {
		var err error
		notes, err = t.ListNotes(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Storage) AllNotes(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	err := s.view(func(t *txStore) error {
		var err error
		notes, err = t.AllNotes(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id, stamp, updatedAt string) error {
	return s.update(func(t *txStore) error { return t.DeleteNote(ctx, id, stamp, updatedAt) })
}
