package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/models"
)

// SaveTask stores or overwrites a task verbatim
func (t *txStore) SaveTask(ctx context.Context, task *models.Task) error {
	bucket := t.tx.Bucket(bucketTasks)
	if bucket == nil {
		return fmt.Errorf("tasks bucket not found")
	}

	// Сериализуем задачу в JSON
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := bucket.Put([]byte(task.ID), data); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID, tombstones included
func (t *txStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	bucket := t.tx.Bucket(bucketTasks)
	if bucket == nil {
		return nil, fmt.Errorf("tasks bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrTaskNotFound
	}

	task := &models.Task{}
	if err := json.Unmarshal(data, task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return task, nil
}

// ListTasks returns all non-deleted tasks ordered by creation time descending
func (t *txStore) ListTasks(ctx context.Context) ([]*models.Task, error) {
	bucket := t.tx.Bucket(bucketTasks)
	if bucket == nil {
		return nil, fmt.Errorf("tasks bucket not found")
	}

	var tasks []*models.Task

	err := bucket.ForEach(func(k, v []byte) error {
		task := &models.Task{}
		if err := json.Unmarshal(v, task); err != nil {
			return fmt.Errorf("failed to unmarshal task: %w", err)
		}

		// Фильтруем удаленные
		if !task.Deleted {
			tasks = append(tasks, task)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Новые задачи сверху
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})

	return tasks, nil
}

// AllTasks returns every task including soft-deleted ones
func (t *txStore) AllTasks(ctx context.Context) ([]*models.Task, error) {
	bucket := t.tx.Bucket(bucketTasks)
	if bucket == nil {
		return nil, fmt.Errorf("tasks bucket not found")
	}

	var tasks []*models.Task

	err := bucket.ForEach(func(k, v []byte) error {
		task := &models.Task{}
		if err := json.Unmarshal(v, task); err != nil {
			return fmt.Errorf("failed to unmarshal task: %w", err)
		}

		tasks = append(tasks, task)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// DeleteTask marks task as deleted (soft delete for snapshot sync)
func (t *txStore) DeleteTask(ctx context.Context, id, stamp, updatedAt string) error {
	bucket := t.tx.Bucket(bucketTasks)
	if bucket == nil {
		return fmt.Errorf("tasks bucket not found")
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		return storage.ErrTaskNotFound
	}

	task := &models.Task{}
	if err := json.Unmarshal(data, task); err != nil {
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	task.Deleted = true
	task.Stamp = stamp
	task.UpdatedAt = updatedAt

	updatedData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := bucket.Put([]byte(id), updatedData); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Storage-level delegations

func (s *Storage) SaveTask(ctx context.Context, task *models.Task) error {
	return s.update(func(t *txStore) error { return t.SaveTask(ctx, task) })
}

func (s *Storage) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task *models.Task
	err := s.view(func(t *txStore) error {
		var err error
		task, err = t.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := s.view(func(t *txStore) error {
		var err error
		tasks, err = t.ListTasks(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Storage) AllTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := s.view(func(t *txStore) error {
		var err error
		tasks, err = t.AllTasks(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id, stamp, updatedAt string) error {
	return s.update(func(t *txStore) error { return t.DeleteTask(ctx, id, stamp, updatedAt) })
}
