package cli

import (
	"context"
	"fmt"
)

// runDone помечает задачу выполненной
func (c *Cli) runDone(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal done <id>")
	}

	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}

	task, err := journalSvc.CompleteTask(ctx, args[0])
	if err != nil {
		return err
	}

	c.io.Printf("Completed task %s\n", task.ID)
	return nil
}
