package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophjournal/internal/client/journal"
	"github.com/iudanet/gophjournal/internal/client/storage"
)

// runGet показывает заметку или задачу вместе с комментариями
func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal get <id>")
	}
	id := args[0]

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	if note, err := journalSvc.GetNote(ctx, id); err == nil {
		c.io.Printf("Note %s\n", note.ID)
		if note.Category != "" {
			c.io.Printf("Category: %s\n", note.Category)
		}
		c.io.Printf("Created:  %s\n", note.CreatedAt)
		c.io.Printf("Updated:  %s\n", note.UpdatedAt)
		c.io.Println("")
		c.io.Println(note.Content)
		return c.printComments(ctx, journalSvc, id)
	} else if !errors.Is(err, storage.ErrNoteNotFound) {
		return fmt.Errorf("failed to get note: %w", err)
	}

	if task, err := journalSvc.GetTask(ctx, id); err == nil {
		c.io.Printf("Task %s %s\n", taskMark(task.Status), task.ID)
		c.io.Printf("Status:   %s\n", task.Status)
		c.io.Printf("Created:  %s\n", task.CreatedAt)
		c.io.Printf("Updated:  %s\n", task.UpdatedAt)
		c.io.Println("")
		c.io.Println(task.Content)
		return c.printComments(ctx, journalSvc, id)
	} else if !errors.Is(err, storage.ErrTaskNotFound) {
		return fmt.Errorf("failed to get task: %w", err)
	}

	return fmt.Errorf("no note or task with id %s", id)
}

func (c *Cli) printComments(ctx context.Context, journalSvc *journal.Service, entryID string) error {
	comments, err := journalSvc.ListComments(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	if len(comments) == 0 {
		return nil
	}

	c.io.Println("")
	c.io.Printf("Comments (%d):\n", len(comments))
	for _, comment := range comments {
		c.io.Printf("  %s  %s  %s\n", comment.ID, comment.CreatedAt, comment.Content)
	}
	return nil
}
