package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophjournal/internal/client/iocli"
	syncpkg "github.com/iudanet/gophjournal/internal/client/sync"
)

// runSync выполняет один цикл синхронизации
func (c *Cli) runSync(ctx context.Context) error {
	sess, err := c.unlockSession(ctx)
	if err != nil {
		return err
	}

	coordinator, err := c.newCoordinator(ctx, sess.keys.EncryptionKey)
	if err != nil {
		return err
	}

	result, err := coordinator.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	// Мутации уже на сервере, повторный post-mutation sync не нужен
	c.mutated = false

	printSyncResult(c.io, result)
	return nil
}

// runWatch синхронизируется периодически до прерывания (Ctrl+C)
func (c *Cli) runWatch(ctx context.Context) error {
	sess, err := c.unlockSession(ctx)
	if err != nil {
		return err
	}

	coordinator, err := c.newCoordinator(ctx, sess.keys.EncryptionKey)
	if err != nil {
		return err
	}

	// Локальные правки других процессов попадут на сервер по тикеру,
	// свои - немедленно через хук мутаций
	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return err
	}
	journalSvc.SetMutationHook(coordinator.TriggerSync)

	coordinator.Start(ctx)
	c.io.Printf("Watching, syncing every %s. Press Ctrl+C to stop.\n", c.syncInterval)

	<-ctx.Done()
	coordinator.Stop()
	c.io.Println("Stopped.")

	return nil
}

func printSyncResult(io iocli.IO, result *syncpkg.Result) {
	if !result.RemoteFound {
		io.Println("No remote snapshot yet, pushed local journal.")
		return
	}

	if result.Merge != nil && result.Merge.Applied() > 0 {
		io.Printf("Sync complete: %d notes, %d tasks, %d comments updated from remote.\n",
			result.Merge.NotesApplied, result.Merge.TasksApplied, result.Merge.CommentsApplied)
	} else {
		io.Println("Sync complete: already up to date.")
	}
}
