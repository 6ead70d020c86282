package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophjournal/internal/server/storage"
	"github.com/iudanet/gophjournal/pkg/api"
)

// DefaultMaxBackupBytes ограничивает размер тела PUT /backup.
// Текстовый журнал сильно меньше; лимит защищает от мусорных запросов.
const DefaultMaxBackupBytes = 16 << 20

// BackupHandler обслуживает зашифрованные снапшоты журнала.
// Содержимое blob для сервера непрозрачно: никакого merge на сервере,
// последний push побеждает.
type BackupHandler struct {
	logger   *slog.Logger
	storage  storage.BackupStorage
	maxBytes int64
}

// NewBackupHandler создает новый handler для снапшотов
func NewBackupHandler(logger *slog.Logger, backupStorage storage.BackupStorage) *BackupHandler {
	return &BackupHandler{
		logger:   logger,
		storage:  backupStorage,
		maxBytes: DefaultMaxBackupBytes,
	}
}

// GetBackup обрабатывает GET /api/v1/backup
// 404 означает "пользователь еще ничего не отправлял" - для клиента
// это сигнал перейти к push-only циклу
func (h *BackupHandler) GetBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	backup, err := h.storage.GetBackup(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrBackupNotFound) {
			sendError(h.logger, w, "backup not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get backup", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "backup served",
		slog.String("user_id", userID),
		slog.Int("size", len(backup.Data)))

	sendJSON(h.logger, w, api.BackupResponse{Data: backup.Data}, http.StatusOK)
}

// PutBackup обрабатывает PUT /api/v1/backup
// Blob заменяется целиком: merge уже выполнен на клиенте
func (h *BackupHandler) PutBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req api.PutBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.WarnContext(ctx, "backup too large", slog.String("user_id", userID))
			sendError(h.logger, w, "backup too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.WarnContext(ctx, "failed to decode backup request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Data == "" {
		sendError(h.logger, w, "data is required", http.StatusBadRequest)
		return
	}

	if err := h.storage.SaveBackup(ctx, userID, req.Data); err != nil {
		h.logger.ErrorContext(ctx, "failed to save backup", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "backup stored",
		slog.String("user_id", userID),
		slog.Int("size", len(req.Data)))

	sendJSON(h.logger, w, api.PutBackupResponse{OK: true}, http.StatusOK)
}
