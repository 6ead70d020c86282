package cli

import (
	"context"
	"fmt"
)

// runLogout удаляет локальную сессию. Записи журнала остаются в
// локальной базе и доступны после следующего логина.
func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.apiClient.SetToken("")
	c.io.Println("Logged out. Local journal data is kept.")
	return nil
}
