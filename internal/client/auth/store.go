package auth

import (
	"context"
	"fmt"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/crypto"
)

// Store implements AuthStore interface and provides encryption layer
// between business logic and storage. It encrypts tokens before saving
// and decrypts them when retrieving.
type Store struct {
	storage storage.AuthStorage
}

// Compile-time check that Store implements AuthStore
var _ AuthStore = (*Store)(nil)

// NewStore creates a new auth store with encryption layer
func NewStore(authStorage storage.AuthStorage) *Store {
	return &Store{
		storage: authStorage,
	}
}

// SaveAuth сохраняет незашифрованные auth данные,
// store сам зашифрует токены и передаст в хранилище
func (s *Store) SaveAuth(ctx context.Context, auth *storage.AuthData, key *crypto.Key) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}

	// Шифруем токены (Encrypt возвращает base64)
	encryptedAccessToken, err := crypto.Encrypt([]byte(auth.AccessToken), key)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	encryptedRefreshToken, err := crypto.Encrypt([]byte(auth.RefreshToken), key)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	// Копируем структуру, чтобы не менять входящую
	authCopy := *auth
	authCopy.AccessToken = encryptedAccessToken
	authCopy.RefreshToken = encryptedRefreshToken

	return s.storage.SaveAuth(ctx, &authCopy)
}

// GetAuthDecryptData загружает данные из storage и расшифровывает токены
func (s *Store) GetAuthDecryptData(ctx context.Context, key *crypto.Key) (*storage.AuthData, error) {
	storedAuth, err := s.storage.GetAuth(ctx)
	if err != nil {
		return nil, err
	}

	accessToken, err := crypto.Decrypt(storedAuth.AccessToken, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	refreshToken, err := crypto.Decrypt(storedAuth.RefreshToken, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	authCopy := *storedAuth
	authCopy.AccessToken = string(accessToken)
	authCopy.RefreshToken = string(refreshToken)

	return &authCopy, nil
}

// StoredNodeID возвращает сохраненный NodeID устройства
// NodeID не секретен и хранится открыто, расшифровка не требуется
func (s *Store) StoredNodeID(ctx context.Context) (string, error) {
	storedAuth, err := s.storage.GetAuth(ctx)
	if err != nil {
		return "", err
	}
	return storedAuth.NodeID, nil
}

// DeleteAuth removes stored authentication data
func (s *Store) DeleteAuth(ctx context.Context) error {
	return s.storage.DeleteAuth(ctx)
}

// IsAuthenticated checks if valid authentication exists
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.storage.IsAuthenticated(ctx)
}
