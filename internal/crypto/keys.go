package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры PBKDF2 фиксированы протоколом: все устройства обязаны
// выводить одинаковые ключи из одной passphrase
const (
	// KDFIterations количество итераций PBKDF2 (медленная деривация
	// против перебора; passphrase никогда не покидает клиент)
	KDFIterations = 100_000
	// KeyLen длина выходного ключа в байтах (AES-256)
	KeyLen = 32
)

// Key непрозрачный симметричный ключ шифрования
// Материал ключа намеренно недоступен снаружи пакета: тип не имеет
// экспортирующих методов и не сериализуется - аналог non-extractable
// ключа платформенного криптопровайдера
type Key struct {
	material []byte
}

// Keys содержит производные ключи для аутентификации и шифрования
type Keys struct {
	AuthKey       []byte // ключ для аутентификации на сервере (32 bytes)
	EncryptionKey *Key   // ключ для шифрования данных (не экспортируется)
}

// DeriveKeys генерирует два независимых ключа из passphrase:
// - AuthKey для аутентификации на сервере
// - EncryptionKey для шифрования снапшотов и вложений
// Солью служит стабильный userID с контекстной строкой: ключ привязан
// к аккаунту, passphrase не передается и не хранится. userID не должен
// меняться за время жизни аккаунта, иначе ключи невосстановимы
func DeriveKeys(passphrase, userID string) (*Keys, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	authKey := pbkdf2.Key([]byte(passphrase), saltFor(userID, "auth"), KDFIterations, KeyLen, sha256.New)
	encryptionKey := pbkdf2.Key([]byte(passphrase), saltFor(userID, "encrypt"), KDFIterations, KeyLen, sha256.New)

	return &Keys{
		AuthKey:       authKey,
		EncryptionKey: &Key{material: encryptionKey},
	}, nil
}

// saltFor строит соль из userID и контекстной строки
// Разные контексты дают криптографически независимые ключи
func saltFor(userID, context string) []byte {
	return []byte(userID + ":" + context)
}
