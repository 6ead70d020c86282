package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophjournal/internal/client/storage"
)

// runDelete помечает заметку, задачу или комментарий удаленными.
// Это soft delete: tombstone остается и распространяется при
// синхронизации на другие устройства.
func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal delete <id>")
	}
	id := args[0]

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	if err := journalSvc.DeleteNote(ctx, id); err == nil {
		c.io.Printf("Deleted note %s\n", id)
		return nil
	} else if !errors.Is(err, storage.ErrNoteNotFound) {
		return err
	}

	if err := journalSvc.DeleteTask(ctx, id); err == nil {
		c.io.Printf("Deleted task %s\n", id)
		return nil
	} else if !errors.Is(err, storage.ErrTaskNotFound) {
		return err
	}

	if err := journalSvc.DeleteComment(ctx, id); err == nil {
		c.io.Printf("Deleted comment %s\n", id)
		return nil
	} else if !errors.Is(err, storage.ErrCommentNotFound) {
		return err
	}

	return fmt.Errorf("no record with id %s", id)
}
