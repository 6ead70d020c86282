package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/iudanet/gophjournal/internal/client/snapshot"
)

// runImport сливает ранее экспортированный JSON в локальный журнал.
// Действуют обычные правила merge: импорт не может откатить более
// свежие локальные правки.
func (c *Cli) runImport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	engine := snapshot.NewEngine(c.store, c.logger)
	result, err := engine.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	c.io.Printf("Import: %d records accepted, %d rejected, %d applied.\n",
		result.Accepted, result.Rejected, result.Merge.Applied())

	// Импорт пишет в обход журнального сервиса, хук мутаций не сработает
	if result.Merge.Applied() > 0 {
		c.mutated = true
	}

	return nil
}
