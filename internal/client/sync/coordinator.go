// Package sync реализует цикл синхронизации с удаленным blob-хранилищем:
// pull -> decrypt -> merge -> dump -> encrypt -> push.
//
// Циклы никогда не выполняются параллельно: модульный guard отбрасывает
// (не ставит в очередь) запросы, пришедшие пока цикл в полете. Push
// всегда идет после merge, поэтому отправленный снапшот уже содержит
// удаленные изменения и сервер не откатывается к старому состоянию.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	httpclient "github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/snapshot"
	"github.com/iudanet/gophjournal/internal/crypto"
	"github.com/iudanet/gophjournal/internal/models"
	"github.com/iudanet/gophjournal/pkg/api"
)

//go:generate moq -out backend_mock.go . Backend

// ErrSyncInProgress возвращается, когда цикл синхронизации уже идет
// Вызывающий код не должен повторять запрос: изменения подхватит
// следующий цикл
var ErrSyncInProgress = errors.New("sync already in progress")

// Backend определяет операции удаленного blob-хранилища
type Backend interface {
	// GetBackup забирает зашифрованный бэкап
	// Возвращает api.ErrBackupNotFound если бэкапа еще нет
	GetBackup(ctx context.Context) (*api.BackupResponse, error)

	// PutBackup целиком перезаписывает бэкап на сервере
	PutBackup(ctx context.Context, req api.PutBackupRequest) error
}

// ClockObserver учитывает eventstamp'ы, пришедшие с других устройств
type ClockObserver interface {
	ObserveStamp(ctx context.Context, stamp string) error
}

// Result содержит итоги одного цикла синхронизации
type Result struct {
	RemoteFound bool                  // на сервере был бэкап
	Merge       *snapshot.MergeResult // что изменило слияние (nil при push-only)
	Pushed      bool                  // локальный снапшот отправлен
}

// Coordinator управляет циклами синхронизации
type Coordinator struct {
	backend  Backend
	engine   *snapshot.Engine
	observer ClockObserver // может быть nil
	key      *crypto.Key
	logger   *slog.Logger
	interval time.Duration

	syncing  atomic.Bool
	trigger  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCoordinator создает координатор синхронизации
// key - активный ключ шифрования сессии, interval - период фоновых циклов
func NewCoordinator(
	backend Backend,
	engine *snapshot.Engine,
	observer ClockObserver,
	key *crypto.Key,
	interval time.Duration,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		backend:  backend,
		engine:   engine,
		observer: observer,
		key:      key,
		logger:   logger,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// ValidateKey проверяет ключ-кандидат против удаленного состояния.
// Без побочных эффектов: никогда не пишет ни локально, ни на сервер.
//   - бэкапа нет: ключ принимается, проверять не на чем
//   - бэкап расшифровался: ключ верный
//   - не сошелся authentication tag: ключ отвергается, passphrase
//     нужно перезапросить и НЕ сохранять производный ключ
func (c *Coordinator) ValidateKey(ctx context.Context, key *crypto.Key) (bool, error) {
	resp, err := c.backend.GetBackup(ctx)
	if err != nil {
		if errors.Is(err, httpclient.ErrBackupNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to pull backup for validation: %w", err)
	}

	if _, err := crypto.Decrypt(resp.Data, key); err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			return false, nil
		}
		return false, fmt.Errorf("failed to decrypt backup: %w", err)
	}

	return true, nil
}

// Sync выполняет один полный цикл синхронизации.
// Возвращает ErrSyncInProgress если другой цикл уже в полете.
func (c *Coordinator) Sync(ctx context.Context) (*Result, error) {
	// Single-flight guard: конкурирующий запрос отбрасывается
	if !c.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	// Guard снимается всегда, даже при ошибке: неудавшийся цикл
	// не должен навсегда заблокировать синхронизацию
	defer c.syncing.Store(false)

	return c.runCycle(ctx)
}

// runCycle: pull -> decrypt -> merge -> dump -> encrypt -> push
func (c *Coordinator) runCycle(ctx context.Context) (*Result, error) {
	result := &Result{}

	// 1. Pull
	resp, err := c.backend.GetBackup(ctx)
	switch {
	case errors.Is(err, httpclient.ErrBackupNotFound):
		// Бэкапа еще нет: не ошибка, переходим к push-only
		c.logger.Debug("no remote backup yet, push-only cycle")
	case err != nil:
		// Сетевая ошибка: отменяем весь цикл без push, чтобы вслепую
		// не затереть удаленное состояние, которое не смогли прочитать
		return nil, fmt.Errorf("pull failed: %w", err)
	default:
		result.RemoteFound = true

		// 2. Decrypt + parse
		plaintext, err := crypto.Decrypt(resp.Data, c.key)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt remote backup: %w", err)
		}

		remoteDump := &models.DatabaseDump{}
		if err := json.Unmarshal(plaintext, remoteDump); err != nil {
			return nil, fmt.Errorf("failed to parse remote backup: %w", err)
		}

		// 3. Merge (атомарно, при ошибке локальное состояние не тронуто)
		mergeResult, err := c.engine.Merge(ctx, remoteDump)
		if err != nil {
			return nil, fmt.Errorf("merge failed: %w", err)
		}
		result.Merge = mergeResult

		c.observeRemoteStamps(ctx, remoteDump)
	}

	// 4. Dump + encrypt + push: выполняется всегда после успешного
	// (или пропущенного) pull, чтобы локальные правки достигли сервера
	dump, err := c.engine.Dump(ctx)
	if err != nil {
		return nil, fmt.Errorf("dump failed: %w", err)
	}

	dumpJSON, err := json.Marshal(dump)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dump: %w", err)
	}

	ciphertext, err := crypto.Encrypt(dumpJSON, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt dump: %w", err)
	}

	if err := c.backend.PutBackup(ctx, api.PutBackupRequest{Data: ciphertext}); err != nil {
		return nil, fmt.Errorf("push failed: %w", err)
	}
	result.Pushed = true

	c.logger.Info("sync cycle completed",
		"remote_found", result.RemoteFound,
		"pushed", result.Pushed,
	)

	return result, nil
}

// observeRemoteStamps двигает локальные часы вперед по максимальному
// stamp из удаленного дампа: следующая локальная правка гарантированно
// получит stamp больше любой уже слитой
func (c *Coordinator) observeRemoteStamps(ctx context.Context, dump *models.DatabaseDump) {
	if c.observer == nil {
		return
	}

	var max string
	for _, n := range dump.Notes {
		if n.Stamp > max {
			max = n.Stamp
		}
	}
	for _, t := range dump.Tasks {
		if t.Stamp > max {
			max = t.Stamp
		}
	}
	for _, cm := range dump.Comments {
		// ID комментария - это его eventstamp
		if cm.ID > max {
			max = cm.ID
		}
	}

	if max == "" {
		return
	}

	if err := c.observer.ObserveStamp(ctx, max); err != nil {
		c.logger.Warn("failed to observe remote stamp", "stamp", max, "error", err)
	}
}

// TriggerSync запрашивает внеочередной цикл синхронизации.
// Неблокирующий: если цикл уже идет или запрос уже стоит, новый
// отбрасывается.
func (c *Coordinator) TriggerSync() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// Start запускает фоновые циклы по интервалу и по триггерам
func (c *Coordinator) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.loop(ctx)
}

// Stop останавливает фоновые циклы
// Цикл в полете не прерывается: он завершится и снимет guard сам
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	c.wg.Wait()
}

func (c *Coordinator) loop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.backgroundSync(ctx)
		case <-c.trigger:
			c.backgroundSync(ctx)
		}
	}
}

// backgroundSync выполняет цикл, не пробрасывая ошибки наружу:
// фоновая синхронизация best-effort, сбой логируется и будет
// повторен на следующем интервале
func (c *Coordinator) backgroundSync(ctx context.Context) {
	if _, err := c.Sync(ctx); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			return
		}
		c.logger.Warn("background sync failed", "error", err)
	}
}
