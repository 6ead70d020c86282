// Package journal реализует типизированные CRUD операции над записями
// журнала. Все мутации проходят валидацию, получают eventstamp и
// обновляют updated_at; удаление всегда soft delete.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/eventstamp"
	"github.com/iudanet/gophjournal/internal/models"
	"github.com/iudanet/gophjournal/internal/validation"
)

// Service handles typed journal operations over the local store
type Service struct {
	store    storage.TxStore
	meta     storage.MetadataStorage
	stamps   *eventstamp.Generator
	logger   *slog.Logger
	onMutate func()
}

// NewService создает журнальный сервис и восстанавливает состояние
// логических часов из метаданных хранилища
func NewService(ctx context.Context, store storage.TxStore, meta storage.MetadataStorage, logger *slog.Logger) (*Service, error) {
	stamps := eventstamp.NewGenerator()

	last, err := meta.GetLastStamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last stamp: %w", err)
	}
	if last != "" {
		if err := stamps.Observe(last); err != nil {
			// Битый stamp в метаданных не должен блокировать запуск:
			// часы начнут с текущего физического времени
			logger.Warn("ignoring malformed persisted stamp", "stamp", last, "error", err)
		}
	}

	return &Service{
		store:  store,
		meta:   meta,
		stamps: stamps,
		logger: logger,
	}, nil
}

// SetMutationHook регистрирует callback, вызываемый после каждой
// успешной мутации. Используется для немедленного запуска синхронизации.
func (s *Service) SetMutationHook(fn func()) {
	s.onMutate = fn
}

// ObserveStamp учитывает eventstamp, пришедший с другого устройства
func (s *Service) ObserveStamp(ctx context.Context, stamp string) error {
	if err := s.stamps.Observe(stamp); err != nil {
		return fmt.Errorf("failed to observe stamp: %w", err)
	}
	return s.persistClock(ctx)
}

// issueStamp выдает следующий eventstamp и сохраняет состояние часов
func (s *Service) issueStamp(ctx context.Context) (string, error) {
	stamp, err := s.stamps.Next()
	if err != nil {
		return "", fmt.Errorf("failed to issue stamp: %w", err)
	}

	if err := s.meta.SaveLastStamp(ctx, stamp); err != nil {
		// Потеря персистентности часов не критична в рамках сессии,
		// но после рестарта монотонность может нарушиться
		s.logger.Warn("failed to persist clock state", "error", err)
	}

	return stamp, nil
}

func (s *Service) persistClock(ctx context.Context) error {
	c := s.stamps.Current()
	stamp, err := eventstamp.MakeStamp(c.Ms, c.Seq)
	if err != nil {
		return fmt.Errorf("failed to encode clock state: %w", err)
	}
	if err := s.meta.SaveLastStamp(ctx, stamp); err != nil {
		return fmt.Errorf("failed to persist clock state: %w", err)
	}
	return nil
}

func (s *Service) notifyMutation() {
	if s.onMutate != nil {
		s.onMutate()
	}
}

// NoteUpdate описывает частичное обновление заметки
// nil поле означает "не менять"
type NoteUpdate struct {
	Content  *string
	Category *string
}

// AddNote создает новую заметку и возвращает каноническую запись
func (s *Service) AddNote(ctx context.Context, content, category string) (*models.Note, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}
	if err := validation.ValidateCategory(category); err != nil {
		return nil, err
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	note := &models.Note{
		ID:        uuid.New().String(),
		Content:   content,
		Category:  category,
		Stamp:     stamp,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.notifyMutation()
	return note, nil
}

// GetNote возвращает заметку по ID
// Tombstone для вызывающего кода неотличим от отсутствия записи
func (s *Service) GetNote(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Deleted {
		return nil, storage.ErrNoteNotFound
	}
	return note, nil
}

// ListNotes возвращает активные заметки, новые сверху
func (s *Service) ListNotes(ctx context.Context) ([]*models.Note, error) {
	return s.store.ListNotes(ctx)
}

// UpdateNote применяет частичное обновление к заметке
// Отсутствующая или удаленная заметка - ErrNoteNotFound
func (s *Service) UpdateNote(ctx context.Context, id string, update NoteUpdate) (*models.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		if err := validation.ValidateContent(*update.Content); err != nil {
			return nil, err
		}
		note.Content = *update.Content
	}
	if update.Category != nil {
		if err := validation.ValidateCategory(*update.Category); err != nil {
			return nil, err
		}
		note.Category = *update.Category
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return nil, err
	}
	note.Stamp = stamp
	note.UpdatedAt = models.Now()

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.notifyMutation()
	return note, nil
}

// DeleteNote помечает заметку удаленной
// Повторное удаление - no-op: запись уже tombstone
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if note.Deleted {
		return nil
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, id, stamp, models.Now()); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.notifyMutation()
	return nil
}

// TaskUpdate описывает частичное обновление задачи
type TaskUpdate struct {
	Content *string
	Status  *models.TaskStatus
}

// AddTask создает новую задачу со статусом incomplete
func (s *Service) AddTask(ctx context.Context, content string) (*models.Task, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	task := &models.Task{
		ID:        uuid.New().String(),
		Content:   content,
		Status:    models.TaskStatusIncomplete,
		Stamp:     stamp,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.notifyMutation()
	return task, nil
}

// GetTask возвращает задачу по ID
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Deleted {
		return nil, storage.ErrTaskNotFound
	}
	return task, nil
}

// ListTasks возвращает активные задачи, новые сверху
func (s *Service) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.store.ListTasks(ctx)
}

// UpdateTask применяет частичное обновление к задаче
func (s *Service) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		if err := validation.ValidateContent(*update.Content); err != nil {
			return nil, err
		}
		task.Content = *update.Content
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown task status %q", validation.ErrValidation, *update.Status)
		}
		task.Status = *update.Status
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return nil, err
	}
	task.Stamp = stamp
	task.UpdatedAt = models.Now()

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.notifyMutation()
	return task, nil
}

// CompleteTask помечает задачу выполненной
func (s *Service) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	status := models.TaskStatusComplete
	return s.UpdateTask(ctx, id, TaskUpdate{Status: &status})
}

// DeleteTask помечает задачу удаленной
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task.Deleted {
		return nil
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id, stamp, models.Now()); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.notifyMutation()
	return nil
}

// AddComment добавляет комментарий к существующей заметке или задаче
// ID комментария - eventstamp: сортировка по ID дает порядок создания
func (s *Service) AddComment(ctx context.Context, entryID, content string) (*models.Comment, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	if err := s.entryExists(ctx, entryID); err != nil {
		return nil, err
	}

	stamp, err := s.issueStamp(ctx)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	comment := &models.Comment{
		ID:        stamp,
		EntryID:   entryID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.notifyMutation()
	return comment, nil
}

// ListComments возвращает активные комментарии записи в порядке создания
func (s *Service) ListComments(ctx context.Context, entryID string) ([]*models.Comment, error) {
	return s.store.ListComments(ctx, entryID)
}

// DeleteComment помечает комментарий удаленным
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.Deleted {
		return nil
	}

	if _, err := s.issueStamp(ctx); err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, id, models.Now()); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.notifyMutation()
	return nil
}

// entryExists проверяет, что запись с таким ID есть среди активных
// заметок или задач
func (s *Service) entryExists(ctx context.Context, entryID string) error {
	if _, err := s.GetNote(ctx, entryID); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNoteNotFound) {
		return err
	}

	if _, err := s.GetTask(ctx, entryID); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrTaskNotFound) {
		return err
	}

	return fmt.Errorf("%w: no note or task with id %s", validation.ErrValidation, entryID)
}
