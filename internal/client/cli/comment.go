package cli

import (
	"context"
	"fmt"
	"strings"
)

// runComment добавляет комментарий к заметке или задаче
func (c *Cli) runComment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal comment <id> [content]")
	}
	entryID := args[0]
	content := strings.TrimSpace(strings.Join(args[1:], " "))

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	if content == "" {
		content, err = c.io.ReadInput("Comment: ")
		if err != nil {
			return fmt.Errorf("failed to read comment: %w", err)
		}
	}

	comment, err := journalSvc.AddComment(ctx, entryID, content)
	if err != nil {
		return err
	}

	c.io.Printf("Added comment %s\n", comment.ID)
	return nil
}
