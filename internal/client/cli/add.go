package cli

import (
	"context"
	"fmt"
	"strings"
)

// runAdd добавляет заметку или задачу.
// Содержимое берется из аргументов командной строки, при их отсутствии
// запрашивается интерактивно.
func (c *Cli) runAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal add note|task [content]")
	}

	kind := args[0]
	content := strings.TrimSpace(strings.Join(args[1:], " "))

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	switch kind {
	case "note":
		if content == "" {
			content, err = c.io.ReadInput("Note content: ")
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}
		}
		category, err := c.io.ReadInput("Category (optional): ")
		if err != nil {
			return fmt.Errorf("failed to read category: %w", err)
		}

		note, err := journalSvc.AddNote(ctx, content, category)
		if err != nil {
			return err
		}
		c.io.Printf("Added note %s\n", note.ID)

	case "task":
		if content == "" {
			content, err = c.io.ReadInput("Task content: ")
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}
		}

		task, err := journalSvc.AddTask(ctx, content)
		if err != nil {
			return err
		}
		c.io.Printf("Added task %s\n", task.ID)

	default:
		return fmt.Errorf("unknown record type %q, expected note or task", kind)
	}

	return nil
}
