// Package snapshot реализует дамп и слияние всей локальной базы журнала.
//
// Дамп сериализует все коллекции целиком, включая tombstones, чтобы
// удаления реплицировались на другие устройства. Слияние применяет
// last-write-wins на уровне целой записи по полю updated_at и выполняется
// одной атомарной транзакцией: либо применяется всё, либо ничего.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/models"
)

// ErrSchemaVersion indicates that a dump's schema version is not supported
// Несовпадение версии - жесткий отказ, никакого best-effort слияния
var ErrSchemaVersion = errors.New("unsupported schema version")

// MergeResult reports what a merge actually changed
type MergeResult struct {
	NotesApplied    int // notes inserted or overwritten
	TasksApplied    int // tasks inserted or overwritten
	CommentsApplied int // comments inserted or overwritten
	Skipped         int // records where the local copy was same-age or newer
}

// Applied returns the total number of records written by the merge
func (r *MergeResult) Applied() int {
	return r.NotesApplied + r.TasksApplied + r.CommentsApplied
}

// Engine performs whole-database dumps and merges over the local store
type Engine struct {
	store  storage.TxStore
	logger *slog.Logger
}

// NewEngine creates a snapshot engine
func NewEngine(store storage.TxStore, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// Dump reads every record from every collection, tombstones included,
// and returns them verbatim with the current schema version tag
func (e *Engine) Dump(ctx context.Context) (*models.DatabaseDump, error) {
	notes, err := e.store.AllNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump notes: %w", err)
	}

	tasks, err := e.store.AllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump tasks: %w", err)
	}

	comments, err := e.store.AllComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump comments: %w", err)
	}

	return &models.DatabaseDump{
		SchemaVersion: models.SchemaVersion,
		Notes:         notes,
		Tasks:         tasks,
		Comments:      comments,
	}, nil
}

// Merge merges an externally-supplied dump into the local store.
//
// Разрешение конфликтов: для каждой записи дампа ищем локальную с тем же ID.
// Нет локальной - вставляем как есть (в том числе tombstone: это защищает
// от воскрешения записи устаревшим эхом с сервера). Есть локальная -
// побеждает запись с большим updated_at, целиком, без пофилдового слияния.
// При равенстве остается локальная.
//
// Все слияние выполняется в одной транзакции: любая ошибка откатывает
// все частичные записи.
func (e *Engine) Merge(ctx context.Context, dump *models.DatabaseDump) (*MergeResult, error) {
	if dump.SchemaVersion != models.SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrSchemaVersion, dump.SchemaVersion, models.SchemaVersion)
	}

	result := &MergeResult{}

	err := e.store.WithTransaction(ctx, func(s storage.Store) error {
		for _, remote := range dump.Notes {
			local, err := s.GetNote(ctx, remote.ID)
			switch {
			case errors.Is(err, storage.ErrNoteNotFound):
				if err := s.SaveNote(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to insert note %s: %w", remote.ID, err)
				}
				result.NotesApplied++
			case err != nil:
				return fmt.Errorf("failed to look up note %s: %w", remote.ID, err)
			case remote.NewerThan(local):
				if err := s.SaveNote(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to overwrite note %s: %w", remote.ID, err)
				}
				result.NotesApplied++
			default:
				result.Skipped++
			}
		}

		for _, remote := range dump.Tasks {
			local, err := s.GetTask(ctx, remote.ID)
			switch {
			case errors.Is(err, storage.ErrTaskNotFound):
				if err := s.SaveTask(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to insert task %s: %w", remote.ID, err)
				}
				result.TasksApplied++
			case err != nil:
				return fmt.Errorf("failed to look up task %s: %w", remote.ID, err)
			case remote.NewerThan(local):
				if err := s.SaveTask(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to overwrite task %s: %w", remote.ID, err)
				}
				result.TasksApplied++
			default:
				result.Skipped++
			}
		}

		for _, remote := range dump.Comments {
			local, err := s.GetComment(ctx, remote.ID)
			switch {
			case errors.Is(err, storage.ErrCommentNotFound):
				if err := s.SaveComment(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to insert comment %s: %w", remote.ID, err)
				}
				result.CommentsApplied++
			case err != nil:
				return fmt.Errorf("failed to look up comment %s: %w", remote.ID, err)
			case remote.NewerThan(local):
				if err := s.SaveComment(ctx, remote.Clone()); err != nil {
					return fmt.Errorf("failed to overwrite comment %s: %w", remote.ID, err)
				}
				result.CommentsApplied++
			default:
				result.Skipped++
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("merge completed",
		"notes_applied", result.NotesApplied,
		"tasks_applied", result.TasksApplied,
		"comments_applied", result.CommentsApplied,
		"skipped", result.Skipped,
	)

	return result, nil
}
