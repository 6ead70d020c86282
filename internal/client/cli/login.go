package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/gophjournal/internal/client/storage"
)

// runLogin аутентифицирует пользователя и выполняет первичную
// синхронизацию. Ключ-кандидат проверяется против удаленного снапшота
// ДО сохранения сессии: несовпадающий ключ не оставляет следов и не
// может испортить удаленные данные.
func (c *Cli) runLogin(ctx context.Context) error {
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	passphrase, err := c.getPassphrase()
	if err != nil {
		return err
	}

	result, err := c.authService.Login(ctx, username, passphrase)
	if err != nil {
		return err
	}

	c.apiClient.SetToken(result.AccessToken)

	coordinator, err := c.newCoordinator(ctx, result.Keys.EncryptionKey)
	if err != nil {
		return err
	}

	ok, err := coordinator.ValidateKey(ctx, result.Keys.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to validate encryption key: %w", err)
	}
	if !ok {
		return fmt.Errorf("passphrase does not decrypt existing remote data; " +
			"check that you used the same passphrase as on your other devices")
	}

	authData := &storage.AuthData{
		Username:     result.Username,
		UserID:       result.UserID,
		NodeID:       result.NodeID,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    time.Now().Unix() + result.ExpiresIn,
	}
	if err := c.authStore.SaveAuth(ctx, authData, result.Keys.EncryptionKey); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Printf("Logged in as %s\n", result.Username)

	syncResult, err := coordinator.Sync(ctx)
	if err != nil {
		// Сессия уже сохранена: неудачный первый sync не отменяет логин
		c.io.Printf("Initial sync failed: %v\n", err)
		c.io.Println("Run 'gophjournal sync' to retry.")
		return nil
	}

	printSyncResult(c.io, syncResult)
	return nil
}
