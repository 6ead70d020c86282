package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
	NonceSize = 12
)

// ErrDecryptionFailed возвращается, когда не сошелся authentication tag
// Это штатный механизм обнаружения неверной passphrase: расшифровка
// чужим ключом почти всегда валит проверку тега, а не выдает мусор
var ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

// EncryptBytes шифрует произвольные байты с использованием AES-256-GCM
// Формат результата: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
// Nonce генерируется заново на каждый вызов и никогда не переиспользуется
func EncryptBytes(plaintext []byte, key *Key) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("plaintext cannot be empty")
	}
	if key == nil || len(key.material) != KeyLen {
		return nil, fmt.Errorf("encryption key is not initialized")
	}

	block, err := aes.NewCipher(key.material)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM автоматически добавляет authentication tag в конец
	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, len(nonce)+len(ciphertext))
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// DecryptBytes дешифрует данные, зашифрованные EncryptBytes
// Ожидает формат: nonce (12 bytes) + ciphertext + auth_tag (16 bytes)
// При несовпадении тега возвращает ErrDecryptionFailed
func DecryptBytes(encrypted []byte, key *Key) ([]byte, error) {
	if len(encrypted) < NonceSize {
		return nil, fmt.Errorf("encrypted data too short")
	}
	if key == nil || len(key.material) != KeyLen {
		return nil, fmt.Errorf("encryption key is not initialized")
	}

	block, err := aes.NewCipher(key.material)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := encrypted[:NonceSize]
	ciphertext := encrypted[NonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// Encrypt шифрует данные и возвращает результат в Base64
// Удобно для передачи по сети и хранения в JSON
func Encrypt(plaintext []byte, key *Key) (string, error) {
	encrypted, err := EncryptBytes(plaintext, key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// Decrypt дешифрует данные из Base64
func Decrypt(encryptedBase64 string, key *Key) ([]byte, error) {
	encrypted, err := base64.StdEncoding.DecodeString(encryptedBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return DecryptBytes(encrypted, key)
}
