package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/crypto"
	"github.com/iudanet/gophjournal/internal/server/storage/sqlite"
	"github.com/iudanet/gophjournal/pkg/api"
)

func newTestServer(t *testing.T, mutate func(*Config)) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret-at-least-32-bytes-long"
	if mutate != nil {
		mutate(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, Storages{Users: store, Tokens: store, Backups: store}, cfg)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// registerTestUser регистрирует пользователя так, как это делает клиент
func registerTestUser(t *testing.T, client *httpclient.Client, username, passphrase string) (string, *crypto.Keys) {
	t.Helper()
	ctx := context.Background()

	userID := uuid.New().String()
	keys, err := crypto.DeriveKeys(passphrase, userID)
	require.NoError(t, err)
	authKeyHash, err := crypto.HashAuthKey(keys.AuthKey)
	require.NoError(t, err)

	resp, err := client.Register(ctx, api.RegisterRequest{
		Username:    username,
		UserID:      userID,
		AuthKeyHash: authKeyHash,
	})
	require.NoError(t, err)
	require.Equal(t, userID, resp.UserID)

	return userID, keys
}

func loginTestUser(t *testing.T, client *httpclient.Client, username string, keys *crypto.Keys) *api.TokenResponse {
	t.Helper()

	authKeyHash, err := crypto.HashAuthKey(keys.AuthKey)
	require.NoError(t, err)

	tokens, err := client.Login(context.Background(), api.LoginRequest{
		Username:    username,
		AuthKeyHash: authKeyHash,
	})
	require.NoError(t, err)
	return tokens
}

func TestServer_FullBackupFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	userID, keys := registerTestUser(t, client, "alice", "correct horse battery staple")

	// user_id доступен до логина: без него клиент не выведет ключи
	userResp, err := client.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, userID, userResp.UserID)

	tokens := loginTestUser(t, client, "alice", keys)
	require.NotEmpty(t, tokens.AccessToken)
	client.SetToken(tokens.AccessToken)

	// Снапшота еще нет
	_, err = client.GetBackup(ctx)
	assert.ErrorIs(t, err, httpclient.ErrBackupNotFound)

	require.NoError(t, client.PutBackup(ctx, api.PutBackupRequest{Data: "encrypted-blob"}))

	backup, err := client.GetBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "encrypted-blob", backup.Data)

	// Повторный push заменяет blob
	require.NoError(t, client.PutBackup(ctx, api.PutBackupRequest{Data: "encrypted-blob-v2"}))

	backup, err = client.GetBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "encrypted-blob-v2", backup.Data)
}

func TestServer_BackupRequiresAuth(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	_, err := client.GetBackup(ctx)
	require.Error(t, err)

	err = client.PutBackup(ctx, api.PutBackupRequest{Data: "blob"})
	require.Error(t, err)
}

func TestServer_LoginRejectsWrongAuthKey(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	registerTestUser(t, client, "alice", "correct horse battery staple")

	_, err := client.Login(ctx, api.LoginRequest{
		Username:    "alice",
		AuthKeyHash: strings.Repeat("00", 32),
	})
	assert.ErrorIs(t, err, httpclient.ErrUnauthorized)
}

func TestServer_RegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	registerTestUser(t, client, "alice", "correct horse battery staple")

	_, err := client.Register(ctx, api.RegisterRequest{
		Username:    "alice",
		UserID:      uuid.New().String(),
		AuthKeyHash: strings.Repeat("ab", 32),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestServer_RegisterRejectsBadUserID(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	_, err := client.Register(ctx, api.RegisterRequest{
		Username:    "alice",
		UserID:      "not-a-uuid",
		AuthKeyHash: strings.Repeat("ab", 32),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

func TestServer_RefreshRotatesTokens(t *testing.T) {
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	_, keys := registerTestUser(t, client, "alice", "correct horse battery staple")
	tokens := loginTestUser(t, client, "alice", keys)

	refresh := func(refreshToken string) (*api.TokenResponse, int) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/auth/refresh", http.NoBody)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+refreshToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode
		}
		var tr api.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
		return &tr, resp.StatusCode
	}

	newTokens, status := refresh(tokens.RefreshToken)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, tokens.RefreshToken, newTokens.RefreshToken)

	// Старый refresh token отозван
	_, status = refresh(tokens.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Новый работает
	_, status = refresh(newTokens.RefreshToken)
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_LogoutRevokesRefreshTokens(t *testing.T) {
	ts := newTestServer(t, nil)
	client := httpclient.NewClient(ts.URL)

	_, keys := registerTestUser(t, client, "alice", "correct horse battery staple")
	tokens := loginTestUser(t, client, "alice", keys)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/auth/logout", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Refresh token больше не действует
	req, err = http.NewRequest(http.MethodPost, ts.URL+"/api/v1/auth/refresh", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) {
		cfg.Version = "1.2.3"
	})

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "1.2.3")
}

func TestServer_AuthRateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) {
		cfg.AuthRate = 2
		cfg.AuthWindow = time.Minute
	})

	status := func() int {
		resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	// Первые запросы проходят (и падают на валидации), дальше 429
	assert.NotEqual(t, http.StatusTooManyRequests, status())
	assert.NotEqual(t, http.StatusTooManyRequests, status())
	assert.Equal(t, http.StatusTooManyRequests, status())
}
