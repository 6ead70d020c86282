package cli

import (
	"context"
	"fmt"
)

// runRegister регистрирует нового пользователя на сервере.
// Passphrase подтверждается повторным вводом только при интерактивном
// запросе: из env/файла/аргумента опечатка маловероятна.
func (c *Cli) runRegister(ctx context.Context) error {
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	interactive := !c.hasNonInteractivePassphrase()

	passphrase, err := c.getPassphrase()
	if err != nil {
		return err
	}

	if interactive {
		confirm, err := c.io.ReadPassword("Confirm passphrase: ")
		if err != nil {
			return fmt.Errorf("failed to read passphrase confirmation: %w", err)
		}
		if confirm != passphrase {
			return fmt.Errorf("passphrases do not match")
		}
	}

	result, err := c.authService.Register(ctx, username, passphrase)
	if err != nil {
		return err
	}

	c.io.Printf("Registered user %s (id %s)\n", result.Username, result.UserID)
	c.io.Println("")
	c.io.Println("IMPORTANT: your passphrase is the only key to your data.")
	c.io.Println("It is never sent to the server and cannot be recovered.")
	c.io.Println("Run 'gophjournal login' to start using the journal.")

	return nil
}
