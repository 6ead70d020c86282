package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/crypto"
	"github.com/iudanet/gophjournal/internal/validation"
	pkgapi "github.com/iudanet/gophjournal/pkg/api"
)

// AuthStore defines interface for storing authentication data with encryption
// This layer is responsible for encrypting/decrypting tokens before saving
// to storage
type AuthStore interface {
	// SaveAuth encrypts tokens and saves authentication data
	SaveAuth(ctx context.Context, auth *storage.AuthData, key *crypto.Key) error

	// GetAuthDecryptData retrieves authentication data and decrypts tokens
	GetAuthDecryptData(ctx context.Context, key *crypto.Key) (*storage.AuthData, error)

	// StoredNodeID returns the persisted device node ID without decrypting tokens
	StoredNodeID(ctx context.Context) (string, error)

	// DeleteAuth removes stored authentication data
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if valid authentication exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// Service предоставляет функции авторизации
type Service struct {
	apiClient *api.Client
	authStore AuthStore
}

// NewService создает новый сервис авторизации
func NewService(apiClient *api.Client, authStore AuthStore) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
	}
}

// RegisterResult содержит результат регистрации
type RegisterResult struct {
	UserID   string       // UUID пользователя
	Username string       // username
	NodeID   string       // уникальный ID клиента/устройства
	Keys     *crypto.Keys // производные ключи (НЕ сохраняются!)
}

// Register регистрирует нового пользователя.
// UserID генерируется на клиенте до обращения к серверу: он служит
// солью для деривации ключей, поэтому должен существовать заранее.
func (s *Service) Register(ctx context.Context, username, passphrase string) (*RegisterResult, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return nil, fmt.Errorf("invalid passphrase: %w", err)
	}

	// 1. Генерируем стабильный UserID
	userID := uuid.New().String()

	// 2. Деривируем ключи из passphrase
	keys, err := crypto.DeriveKeys(passphrase, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}

	// 3. Хешируем auth_key для отправки на сервер
	authKeyHash, err := crypto.HashAuthKey(keys.AuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to hash auth key: %w", err)
	}

	// 4. Отправляем запрос на регистрацию
	req := pkgapi.RegisterRequest{
		Username:    username,
		UserID:      userID,
		AuthKeyHash: authKeyHash,
	}

	resp, err := s.apiClient.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	// 5. Генерируем уникальный NodeID для этого устройства
	nodeID := uuid.New().String()

	return &RegisterResult{
		UserID:   resp.UserID,
		Username: username,
		NodeID:   nodeID,
		Keys:     keys,
	}, nil
}

// LoginResult содержит результат авторизации
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Username     string
	UserID       string
	NodeID       string       // уникальный ID клиента/устройства
	Keys         *crypto.Keys // производные ключи (НЕ сохраняются!)
}

// Login выполняет аутентификацию пользователя
// Возвращает результат с токенами и ключом шифрования
func (s *Service) Login(ctx context.Context, username, passphrase string) (*LoginResult, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return nil, fmt.Errorf("invalid passphrase: %w", err)
	}

	// 1. Получаем стабильный user_id с сервера (соль для деривации)
	userResp, err := s.apiClient.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// 2. Деривируем ключи из passphrase
	keys, err := crypto.DeriveKeys(passphrase, userResp.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}

	// 3. Хешируем auth_key
	authKeyHash, err := crypto.HashAuthKey(keys.AuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to hash auth key: %w", err)
	}

	// 4. Отправляем запрос на логин
	req := pkgapi.LoginRequest{
		Username:    username,
		AuthKeyHash: authKeyHash,
	}

	resp, err := s.apiClient.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	// 5. Получаем или генерируем NodeID
	nodeID, err := s.getOrCreateNodeID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create node ID: %w", err)
	}

	return &LoginResult{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		Username:     username,
		UserID:       userResp.UserID,
		NodeID:       nodeID,
		Keys:         keys,
	}, nil
}

// Logout выполняет выход из системы.
// Сервер ничего не знает о сессии сверх срока жизни токена,
// поэтому достаточно удалить локальные данные авторизации.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.authStore.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			slog.Debug("no auth data found during logout")
			return nil
		}
		return fmt.Errorf("failed to delete local auth data: %w", err)
	}

	return nil
}

// getOrCreateNodeID возвращает существующий NodeID или создает новый
// NodeID должен быть уникальным для каждого физического клиента/устройства
func (s *Service) getOrCreateNodeID(ctx context.Context) (string, error) {
	if s.authStore == nil {
		return uuid.New().String(), nil
	}

	// NodeID хранится в auth bucket без шифрования,
	// расшифровка токенов для него не нужна
	nodeID, err := s.authStore.StoredNodeID(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return uuid.New().String(), nil
		}
		return "", fmt.Errorf("failed to get auth data: %w", err)
	}

	if nodeID != "" {
		return nodeID, nil
	}

	return uuid.New().String(), nil
}
