package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophjournal/internal/models"
)

const contentPreviewLen = 60

// runList печатает активные заметки или задачи, новые сверху
func (c *Cli) runList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal list notes|tasks")
	}

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "notes":
		notes, err := journalSvc.ListNotes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
		if len(notes) == 0 {
			c.io.Println("No notes.")
			return nil
		}
		for _, note := range notes {
			line := fmt.Sprintf("%s  %s", note.ID, preview(note.Content))
			if note.Category != "" {
				line += fmt.Sprintf("  [%s]", note.Category)
			}
			c.io.Println(line)
		}

	case "tasks":
		tasks, err := journalSvc.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			c.io.Println("No tasks.")
			return nil
		}
		for _, task := range tasks {
			c.io.Printf("%s  %s %s\n", task.ID, taskMark(task.Status), preview(task.Content))
		}

	default:
		return fmt.Errorf("unknown record type %q, expected notes or tasks", args[0])
	}

	return nil
}

func taskMark(status models.TaskStatus) string {
	if status == models.TaskStatusComplete {
		return "[x]"
	}
	return "[ ]"
}

// preview обрезает содержимое до одной строки списка
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= contentPreviewLen {
		return content
	}
	return string(runes[:contentPreviewLen]) + "..."
}
