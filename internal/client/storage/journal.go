package storage

import (
	"context"

	"github.com/iudanet/gophjournal/internal/models"
)

// NoteStorage defines interface for storing notes on client
type NoteStorage interface {
	// SaveNote stores or overwrites a note verbatim (create and merge path)
	SaveNote(ctx context.Context, note *models.Note) error

	// GetNote retrieves a note by ID, tombstones included
	// Returns ErrNoteNotFound if note doesn't exist
	GetNote(ctx context.Context, id string) (*models.Note, error)

	// ListNotes returns all non-deleted notes ordered by CreatedAt descending
	ListNotes(ctx context.Context) ([]*models.Note, error)

	// AllNotes returns every note including soft-deleted ones
	// Used for snapshot dumps: tombstones must propagate
	AllNotes(ctx context.Context) ([]*models.Note, error)

	// DeleteNote marks note as deleted (soft delete), recording the
	// eventstamp and UpdatedAt of the delete mutation
	DeleteNote(ctx context.Context, id, stamp, updatedAt string) error
}

// TaskStorage defines interface for storing tasks on client
type TaskStorage interface {
	// SaveTask stores or overwrites a task verbatim (create and merge path)
	SaveTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by ID, tombstones included
	// Returns ErrTaskNotFound if task doesn't exist
	GetTask(ctx context.Context, id string) (*models.Task, error)

	// ListTasks returns all non-deleted tasks ordered by CreatedAt descending
	ListTasks(ctx context.Context) ([]*models.Task, error)

	// AllTasks returns every task including soft-deleted ones
	AllTasks(ctx context.Context) ([]*models.Task, error)

	// DeleteTask marks task as deleted (soft delete), recording the
	// eventstamp and UpdatedAt of the delete mutation
	DeleteTask(ctx context.Context, id, stamp, updatedAt string) error
}

// CommentStorage defines interface for storing comments on client
type CommentStorage interface {
	// SaveComment stores or overwrites a comment verbatim
	SaveComment(ctx context.Context, comment *models.Comment) error

	// GetComment retrieves a comment by ID, tombstones included
	// Returns ErrCommentNotFound if comment doesn't exist
	GetComment(ctx context.Context, id string) (*models.Comment, error)

	// ListComments returns non-deleted comments for an entry ordered by ID
	// Comment IDs are eventstamps, so ID order is creation order
	ListComments(ctx context.Context, entryID string) ([]*models.Comment, error)

	// AllComments returns every comment including soft-deleted ones
	AllComments(ctx context.Context) ([]*models.Comment, error)

	// DeleteComment marks comment as deleted (soft delete) and restamps UpdatedAt
	DeleteComment(ctx context.Context, id, updatedAt string) error
}

// Store combines typed access to every journal collection
// The snapshot engine is written against this interface, so any backend
// implementing it can be dumped and merged
type Store interface {
	NoteStorage
	TaskStorage
	CommentStorage
}

// TxStore is a Store whose mutations can be grouped into one
// atomic transaction spanning all collections
type TxStore interface {
	Store

	// WithTransaction runs fn against a transactional view of the store
	// All writes commit together; any error rolls everything back
	WithTransaction(ctx context.Context, fn func(Store) error) error
}
