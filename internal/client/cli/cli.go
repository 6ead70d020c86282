package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/auth"
	"github.com/iudanet/gophjournal/internal/client/iocli"
	"github.com/iudanet/gophjournal/internal/client/journal"
	"github.com/iudanet/gophjournal/internal/client/snapshot"
	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/client/storage/boltdb"
	syncpkg "github.com/iudanet/gophjournal/internal/client/sync"
	"github.com/iudanet/gophjournal/internal/crypto"
	"github.com/iudanet/gophjournal/internal/validation"
)

// EnvPassphrase имя переменной окружения с master passphrase
const EnvPassphrase = "GOPHJOURNAL_PASSPHRASE"

// Passphrases источники master passphrase помимо интерактивного ввода
type Passphrases struct {
	FromFile string
	FromArgs string
}

// Cli связывает команды терминального клиента с сервисами
type Cli struct {
	io           iocli.IO
	apiClient    *api.Client
	store        *boltdb.Storage
	authStore    *auth.Store
	authService  *auth.Service
	logger       *slog.Logger
	passphrases  Passphrases
	syncInterval time.Duration

	journalSvc *journal.Service
	mutated    bool
}

// New создает CLI поверх открытого локального хранилища
func New(
	io iocli.IO,
	apiClient *api.Client,
	store *boltdb.Storage,
	logger *slog.Logger,
	passphrases Passphrases,
	syncInterval time.Duration,
) *Cli {
	authStore := auth.NewStore(store)
	return &Cli{
		io:           io,
		apiClient:    apiClient,
		store:        store,
		authStore:    authStore,
		authService:  auth.NewService(apiClient, authStore),
		logger:       logger,
		passphrases:  passphrases,
		syncInterval: syncInterval,
	}
}

// session данные разблокированной сессии: расшифрованные токены и ключи
type session struct {
	auth *storage.AuthData
	keys *crypto.Keys
}

// journalService лениво создает журнальный сервис
// Хук мутаций помечает сессию грязной: после команды CLI попробует
// фоновую синхронизацию, если passphrase доступна неинтерактивно
func (c *Cli) journalService(ctx context.Context) (*journal.Service, error) {
	if c.journalSvc != nil {
		return c.journalSvc, nil
	}

	svc, err := journal.NewService(ctx, c.store, c.store, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init journal service: %w", err)
	}
	svc.SetMutationHook(func() { c.mutated = true })

	c.journalSvc = svc
	return svc, nil
}

// getPassphrase получает master passphrase по приоритету:
// 1. Переменная окружения GOPHJOURNAL_PASSPHRASE
// 2. Файл из --passphrase-file
// 3. Параметр --passphrase
// 4. Интерактивный запрос (fallback)
func (c *Cli) getPassphrase() (string, error) {
	if envPassphrase := os.Getenv(EnvPassphrase); envPassphrase != "" {
		return envPassphrase, nil
	}

	if c.passphrases.FromFile != "" {
		content, err := os.ReadFile(c.passphrases.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		// Убираем trailing newline/whitespace
		passphrase := strings.TrimSpace(string(content))
		if passphrase == "" {
			return "", fmt.Errorf("passphrase file is empty")
		}
		return passphrase, nil
	}

	if c.passphrases.FromArgs != "" {
		return c.passphrases.FromArgs, nil
	}

	passphrase, err := c.io.ReadPassword("Master passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if passphrase == "" {
		return "", fmt.Errorf("passphrase cannot be empty")
	}

	return passphrase, nil
}

// hasNonInteractivePassphrase сообщает, доступна ли passphrase без
// запроса у пользователя. Фоновая синхронизация никогда не прерывает
// пользователя интерактивным вводом.
func (c *Cli) hasNonInteractivePassphrase() bool {
	return os.Getenv(EnvPassphrase) != "" ||
		c.passphrases.FromFile != "" ||
		c.passphrases.FromArgs != ""
}

// unlockSession расшифровывает сохраненную сессию ключом,
// производным от passphrase. Неверная passphrase обнаруживается по
// провалу проверки authentication tag при расшифровке токенов.
func (c *Cli) unlockSession(ctx context.Context) (*session, error) {
	rawAuth, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, fmt.Errorf("not authenticated, run 'gophjournal login' first")
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	passphrase, err := c.getPassphrase()
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return nil, fmt.Errorf("invalid passphrase: %w", err)
	}

	keys, err := crypto.DeriveKeys(passphrase, rawAuth.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}

	authData, err := c.authStore.GetAuthDecryptData(ctx, keys.EncryptionKey)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			return nil, fmt.Errorf("wrong passphrase")
		}
		return nil, fmt.Errorf("failed to decrypt auth data: %w", err)
	}

	c.apiClient.SetToken(authData.AccessToken)

	return &session{auth: authData, keys: keys}, nil
}

// newCoordinator собирает координатор синхронизации под заданный ключ
// Ключ передается явно: login проверяет ключ-кандидат до сохранения сессии
func (c *Cli) newCoordinator(ctx context.Context, key *crypto.Key) (*syncpkg.Coordinator, error) {
	journalSvc, err := c.journalService(ctx)
	if err != nil {
		return nil, err
	}

	engine := snapshot.NewEngine(c.store, c.logger)
	return syncpkg.NewCoordinator(
		c.apiClient,
		engine,
		journalSvc,
		key,
		c.syncInterval,
		c.logger,
	), nil
}

// maybeSyncAfterMutation best-effort синхронизация после локальной правки.
// Выполняется только если сессия есть и passphrase доступна без
// интерактивного запроса; любые сбои логируются и не мешают пользователю.
func (c *Cli) maybeSyncAfterMutation(ctx context.Context) {
	if !c.mutated || !c.hasNonInteractivePassphrase() {
		return
	}

	ok, err := c.store.IsAuthenticated(ctx)
	if err != nil || !ok {
		return
	}

	sess, err := c.unlockSession(ctx)
	if err != nil {
		c.logger.Warn("skipping post-mutation sync", "error", err)
		return
	}

	coordinator, err := c.newCoordinator(ctx, sess.keys.EncryptionKey)
	if err != nil {
		c.logger.Warn("skipping post-mutation sync", "error", err)
		return
	}

	if _, err := coordinator.Sync(ctx); err != nil && !errors.Is(err, syncpkg.ErrSyncInProgress) {
		c.logger.Warn("post-mutation sync failed", "error", err)
	}
}

func PrintUsage() {
	fmt.Println("GophJournal Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gophjournal [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version               Show version information")
	fmt.Println("  --server URL            Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH               Path to local database (default: gophjournal.db)")
	fmt.Println("  --passphrase PASS       Master passphrase (not recommended, use env var or file)")
	fmt.Println("  --passphrase-file PATH  Path to file containing master passphrase")
	fmt.Println()
	fmt.Println("Passphrase Priority (highest to lowest):")
	fmt.Println("  1. GOPHJOURNAL_PASSPHRASE environment variable")
	fmt.Println("  2. --passphrase-file (file path)")
	fmt.Println("  3. --passphrase (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                     Register new user")
	fmt.Println("  login                        Login and run initial sync")
	fmt.Println("  logout                       Logout and clear local session")
	fmt.Println("  status                       Show authentication and journal status")
	fmt.Println("  add note|task                Add a note or task")
	fmt.Println("  list notes|tasks             List active records")
	fmt.Println("  get <id>                     Show a record with its comments")
	fmt.Println("  edit <id>                    Edit record content")
	fmt.Println("  done <id>                    Mark task as complete")
	fmt.Println("  delete <id>                  Delete a record (soft delete)")
	fmt.Println("  comment <id>                 Add a comment to a record")
	fmt.Println("  sync                         Run one sync cycle")
	fmt.Println("  watch                        Sync periodically until interrupted")
	fmt.Println("  export <file>                Export journal to plaintext JSON")
	fmt.Println("  import <file>                Import a previously exported JSON file")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  gophjournal register")
	fmt.Println("  gophjournal login")
	fmt.Println("  gophjournal add note")
	fmt.Println("  gophjournal list tasks")
	fmt.Println()
	fmt.Println("  # Using environment variable (recommended for automation)")
	fmt.Println("  export GOPHJOURNAL_PASSPHRASE='my long secret passphrase'")
	fmt.Println("  gophjournal sync")
	fmt.Println()
	fmt.Println("  # Using passphrase file")
	fmt.Println("  echo 'my long secret passphrase' > ~/.gophjournal-passphrase")
	fmt.Println("  chmod 600 ~/.gophjournal-passphrase")
	fmt.Println("  gophjournal --passphrase-file ~/.gophjournal-passphrase watch")
}
