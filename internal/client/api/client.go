package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/gophjournal/pkg/api"
)

// Ошибки уровня API клиента
var (
	// ErrBackupNotFound означает, что на сервере еще нет бэкапа (404).
	// Для синхронизации это не ошибка: первый цикл делает push-only.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrUserNotFound означает, что пользователь с таким именем
	// не зарегистрирован (404 от lookup endpoint-а)
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized означает отказ сервера по токену (401)
	ErrUnauthorized = errors.New("unauthorized")

	// errNotFound - сырой 404 из doRequest; каждый метод сам знает,
	// какой ресурс у него отсутствует
	errNotFound = errors.New("not found")
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken устанавливает bearer токен для авторизованных запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// GetUser получает user_id по имени пользователя.
// user_id нужен до логина: он служит солью для вывода ключей.
func (c *Client) GetUser(ctx context.Context, username string) (*api.UserResponse, error) {
	var resp api.UserResponse
	url := fmt.Sprintf("/api/v1/auth/user/%s", username)
	err := c.doRequest(ctx, http.MethodGet, url, nil, &resp)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// GetBackup забирает зашифрованный бэкап с сервера.
// Возвращает ErrBackupNotFound если бэкапа еще нет.
func (c *Client) GetBackup(ctx context.Context) (*api.BackupResponse, error) {
	var resp api.BackupResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/backup", nil, &resp)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("get backup request failed: %w", err)
	}
	return &resp, nil
}

// PutBackup загружает зашифрованный бэкап на сервер.
// Операция идемпотентна: сервер целиком перезаписывает предыдущий блоб.
func (c *Client) PutBackup(ctx context.Context, req api.PutBackupRequest) error {
	var resp api.PutBackupResponse
	err := c.doRequest(ctx, http.MethodPut, "/api/v1/backup", req, &resp)
	if err != nil {
		return fmt.Errorf("put backup request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errNotFound
		case http.StatusUnauthorized:
			return ErrUnauthorized
		}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
