package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophjournal/internal/client/storage"
)

// runStatus показывает состояние сессии и локального журнала.
// Passphrase не требуется: имя пользователя и счетчики записей
// хранятся открыто, зашифрованные токены не трогаем.
func (c *Cli) runStatus(ctx context.Context) error {
	auth, err := c.store.GetAuth(ctx)
	switch {
	case errors.Is(err, storage.ErrAuthNotFound):
		c.io.Println("Status: not authenticated")
	case err != nil:
		return fmt.Errorf("failed to get auth data: %w", err)
	default:
		c.io.Printf("User:    %s (id %s)\n", auth.Username, auth.UserID)
		c.io.Printf("Node:    %s\n", auth.NodeID)
		if time.Now().Unix() >= auth.ExpiresAt {
			c.io.Println("Session: token expired, run 'gophjournal login'")
		} else {
			c.io.Printf("Session: valid until %s\n",
				time.Unix(auth.ExpiresAt, 0).Format(time.RFC3339))
		}
	}

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	notes, err := journalSvc.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	tasks, err := journalSvc.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	c.io.Println("")
	c.io.Printf("Notes:   %d\n", len(notes))
	c.io.Printf("Tasks:   %d\n", len(tasks))

	return nil
}
