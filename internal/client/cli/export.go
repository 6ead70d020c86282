package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/iudanet/gophjournal/internal/client/snapshot"
)

// runExport сохраняет весь журнал в человекочитаемый JSON файл.
// Экспорт НЕ шифруется: это локальный бэкап под контролем пользователя.
// "-" вместо имени файла пишет в stdout.
func (c *Cli) runExport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gophjournal export <file>")
	}
	path := args[0]

	engine := snapshot.NewEngine(c.store, c.logger)
	data, err := engine.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if path == "-" {
		if _, err := c.io.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	c.io.Printf("Exported journal to %s\n", path)
	return nil
}
