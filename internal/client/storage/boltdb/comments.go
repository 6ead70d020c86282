package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/models"
)

// SaveComment stores or overwrites a comment verbatim
func (t *txStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	bucket := t.tx.Bucket(bucketComments)
	if bucket == nil {
		return fmt.Errorf("comments bucket not found")
	}

	// Сериализуем комментарий в JSON
	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	if err := bucket.Put([]byte(comment.ID), data); err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}

	return nil
}

// GetComment retrieves a comment by ID, tombstones included
func (t *txStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	bucket := t.tx.Bucket(bucketComments)
	if bucket == nil {
		return nil, fmt.Errorf("comments bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrCommentNotFound
	}

	comment := &models.Comment{}
	if err := json.Unmarshal(data, comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}

	return comment, nil
}

// ListComments returns non-deleted comments for an entry ordered by ID.
// ID комментария - это eventstamp, поэтому сортировка по ID
// дает порядок создания.
func (t *txStore) ListComments(ctx context.Context, entryID string) ([]*models.Comment, error) {
	bucket := t.tx.Bucket(bucketComments)
	if bucket == nil {
		return nil, fmt.Errorf("comments bucket not found")
	}

	var comments []*models.Comment

	err := bucket.ForEach(func(k, v []byte) error {
		comment := &models.Comment{}
		if err := json.Unmarshal(v, comment); err != nil {
			return fmt.Errorf("failed to unmarshal comment: %w", err)
		}

		// Фильтруем по записи и не удаленным
		if comment.EntryID == entryID && !comment.Deleted {
			comments = append(comments, comment)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})

	return comments, nil
}

// AllComments returns every comment including soft-deleted ones
func (t *txStore) AllComments(ctx context.Context) ([]*models.Comment, error) {
	bucket := t.tx.Bucket(bucketComments)
	if bucket == nil {
		return nil, fmt.Errorf("comments bucket not found")
	}

	var comments []*models.Comment

	err := bucket.ForEach(func(k, v []byte) error {
		comment := &models.Comment{}
		if err := json.Unmarshal(v, comment); err != nil {
			return fmt.Errorf("failed to unmarshal comment: %w", err)
		}

		comments = append(comments, comment)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// DeleteComment marks comment as deleted (soft delete for snapshot sync)
func (t *txStore) DeleteComment(ctx context.Context, id, updatedAt string) error {
	bucket := t.tx.Bucket(bucketComments)
	if bucket == nil {
		return fmt.Errorf("comments bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return storage.ErrCommentNotFound
	}

	comment := &models.Comment{}
	if err := json.Unmarshal(data, comment); err != nil {
		return fmt.Errorf("failed to unmarshal comment: %w", err)
	}

	comment.Deleted = true
	comment.UpdatedAt = updatedAt

	updatedData, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	if err := bucket.Put([]byte(id), updatedData); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// Storage-level delegations

func (s *Storage) SaveComment(ctx context.Context, comment *models.Comment) error {
	return s.update(func(t *txStore) error { return t.SaveComment(ctx, comment) })
}

func (s *Storage) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment *models.Comment
	err := s.view(func(t *txStore) error {
		var err error
		comment, err = t.GetComment(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Storage) ListComments(ctx context.Context, entryID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.view(func(t *txStore) error {
		var err error
		comments, err = t.ListComments(ctx, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Storage) AllComments(ctx context.Context) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.view(func(t *txStore) error {
		var err error
		comments, err = t.AllComments(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Storage) DeleteComment(ctx context.Context, id, updatedAt string) error {
	return s.update(func(t *txStore) error { return t.DeleteComment(ctx, id, updatedAt) })
}
