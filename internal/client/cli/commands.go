package cli

import (
	"context"
	"fmt"
)

// Run выполняет одну команду CLI. После успешной мутирующей команды
// запускается best-effort синхронизация (если passphrase доступна
// неинтерактивно); login, sync и watch управляют синхронизацией сами.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	if err := c.dispatch(ctx, command, args); err != nil {
		return err
	}

	c.maybeSyncAfterMutation(ctx)
	return nil
}

func (c *Cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "add":
		return c.runAdd(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "edit":
		return c.runEdit(ctx, args)
	case "done":
		return c.runDone(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "comment":
		return c.runComment(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "watch":
		return c.runWatch(ctx)
	case "export":
		return c.runExport(ctx, args)
	case "import":
		return c.runImport(ctx, args)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
