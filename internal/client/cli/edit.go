package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/gophjournal/internal/client/journal"
	"github.com/iudanet/gophjournal/internal/client/storage"
)

// runEdit заменяет содержимое заметки или задачи
func (c *Cli) runEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal edit <id> [content]")
	}
	id := args[0]
	content := strings.TrimSpace(strings.Join(args[1:], " "))

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	if content == "" {
		content, err = c.io.ReadInput("New content: ")
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
	}

	if note, err := journalSvc.UpdateNote(ctx, id, journal.NoteUpdate{Content: &content}); err == nil {
		c.io.Printf("Updated note %s\n", note.ID)
		return nil
	} else if !errors.Is(err, storage.ErrNoteNotFound) {
		return err
	}

	if task, err := journalSvc.UpdateTask(ctx, id, journal.TaskUpdate{Content: &content}); err == nil {
		c.io.Printf("Updated task %s\n", task.ID)
		return nil
	} else if !errors.Is(err, storage.ErrTaskNotFound) {
		return err
	}

	return fmt.Errorf("no note or task with id %s", id)
}
