package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
// UserID генерируется на клиенте: он служит солью для деривации ключей,
// поэтому должен существовать до первого обращения к серверу
type RegisterRequest struct {
	Username    string `json:"username"`      // username пользователя
	UserID      string `json:"user_id"`       // UUID пользователя (генерируется клиентом)
	AuthKeyHash string `json:"auth_key_hash"` // SHA256 хеш auth_key (hex-encoded)
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	UserID  string `json:"user_id"` // UUID пользователя
	Message string `json:"message"` // сообщение об успешной регистрации
}

// UserResponse представляет ответ с публичным идентификатором пользователя
// user_id стабилен на все время жизни аккаунта: от него зависят производные ключи
type UserResponse struct {
	UserID string `json:"user_id"` // UUID пользователя
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username    string `json:"username"`      // username пользователя
	AuthKeyHash string `json:"auth_key_hash"` // SHA256 хеш auth_key (hex-encoded)
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
