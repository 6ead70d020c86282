package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/crypto"
	"github.com/iudanet/gophjournal/internal/validation"
	pkgapi "github.com/iudanet/gophjournal/pkg/api"
)

const testPassphrase = "correct horse battery staple"

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewService(api.NewClient(server.URL), newTestStore(t))
}

func TestService_Register(t *testing.T) {
	var gotReq pkgapi.RegisterRequest

	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgapi.RegisterResponse{
			UserID:  gotReq.UserID,
			Message: "user registered",
		})
	}))

	result, err := service.Register(context.Background(), "testuser", testPassphrase)
	require.NoError(t, err)

	// UserID сгенерирован клиентом и отправлен на сервер
	assert.NotEmpty(t, result.UserID)
	assert.Equal(t, gotReq.UserID, result.UserID)
	assert.NotEmpty(t, result.NodeID)
	require.NotNil(t, result.Keys)

	// Хеш на сервере соответствует производному auth_key
	wantHash, err := crypto.HashAuthKey(result.Keys.AuthKey)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotReq.AuthKeyHash)

	// Passphrase никогда не уходит на сервер
	assert.NotContains(t, gotReq.AuthKeyHash, testPassphrase)
}

func TestService_Register_Validation(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be called on validation failure")
	}))

	_, err := service.Register(context.Background(), "x", testPassphrase)
	assert.ErrorIs(t, err, validation.ErrValidation)

	_, err = service.Register(context.Background(), "testuser", "short")
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestService_Login(t *testing.T) {
	const userID = "11111111-2222-3333-4444-555555555555"

	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/user/testuser":
			_ = json.NewEncoder(w).Encode(pkgapi.UserResponse{UserID: userID})
		case "/api/v1/auth/login":
			var req pkgapi.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "testuser", req.Username)
			assert.NotEmpty(t, req.AuthKeyHash)

			_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))

	result, err := service.Login(context.Background(), "testuser", testPassphrase)
	require.NoError(t, err)

	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, userID, result.UserID)
	assert.NotEmpty(t, result.NodeID)
	require.NotNil(t, result.Keys)

	// Деривация детерминирована: тот же passphrase + user_id дают тот же ключ
	again, err := crypto.DeriveKeys(testPassphrase, userID)
	require.NoError(t, err)
	assert.Equal(t, again.AuthKey, result.Keys.AuthKey)
}

func TestService_Login_ReusesNodeID(t *testing.T) {
	const userID = "11111111-2222-3333-4444-555555555555"

	store := newTestStore(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/user/testuser":
			_ = json.NewEncoder(w).Encode(pkgapi.UserResponse{UserID: userID})
		case "/api/v1/auth/login":
			_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900})
		}
	}))
	defer server.Close()

	service := NewService(api.NewClient(server.URL), store)
	ctx := context.Background()

	// Сохраняем auth с существующим NodeID, как после прошлого логина
	keys, err := crypto.DeriveKeys(testPassphrase, userID)
	require.NoError(t, err)
	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:     "testuser",
		UserID:       userID,
		NodeID:       "existing-node",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
	}, keys.EncryptionKey))

	result, err := service.Login(ctx, "testuser", testPassphrase)
	require.NoError(t, err)

	// Повторный login на том же устройстве сохраняет NodeID
	assert.Equal(t, "existing-node", result.NodeID)
}

func TestService_Logout(t *testing.T) {
	store := newTestStore(t)
	service := NewService(api.NewClient("http://localhost:0"), store)
	ctx := context.Background()

	// Logout без сохраненного auth - не ошибка
	require.NoError(t, service.Logout(ctx))

	keys, err := crypto.DeriveKeys(testPassphrase, "user-id-123")
	require.NoError(t, err)
	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:     "testuser",
		AccessToken:  "a",
		RefreshToken: "r",
	}, keys.EncryptionKey))

	require.NoError(t, service.Logout(ctx))

	_, err = store.StoredNodeID(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}
