package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrNoteNotFound indicates that note was not found
	ErrNoteNotFound = errors.New("note not found")

	// ErrTaskNotFound indicates that task was not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound indicates that comment was not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
