package models

import "time"

// User представляет пользователя на сервере
// Сервер никогда не видит passphrase: хранится только SHA256 хеш
// производного auth_key. ID генерируется клиентом при регистрации,
// потому что служит солью для деривации ключей.
type User struct {
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	ID          string     `json:"id"`            // UUID, генерируется клиентом
	Username    string     `json:"username"`      // уникальный username
	AuthKeyHash string     `json:"auth_key_hash"` // SHA256 хеш auth_key (hex)
}

// RefreshToken представляет refresh token на сервере
type RefreshToken struct {
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
}

// Backup представляет зашифрованный снапшот журнала пользователя.
// Сервер хранит его как непрозрачный blob: расшифровать его может
// только клиент с правильной passphrase.
type Backup struct {
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
	Data      string    `json:"data"` // base64(nonce + ciphertext)
}
