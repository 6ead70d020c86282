package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassphrase = "correct horse battery staple"
	testUserID     = "3f8d2a10-5b7e-4c9f-8a21-6d4e0f1b2c3d"
)

func TestDeriveKeys_Deterministic(t *testing.T) {
	first, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)
	second, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	// Одна и та же passphrase на любом устройстве дает те же ключи
	assert.Equal(t, first.AuthKey, second.AuthKey)
	assert.Equal(t, first.EncryptionKey.material, second.EncryptionKey.material)
}

func TestDeriveKeys_AuthAndEncryptionKeysDiffer(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	require.Len(t, keys.AuthKey, KeyLen)
	require.Len(t, keys.EncryptionKey.material, KeyLen)
	assert.NotEqual(t, keys.AuthKey, keys.EncryptionKey.material)
}

func TestDeriveKeys_DifferentInputsDifferentKeys(t *testing.T) {
	base, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	otherPass, err := DeriveKeys("another passphrase entirely", testUserID)
	require.NoError(t, err)
	assert.NotEqual(t, base.AuthKey, otherPass.AuthKey)

	otherUser, err := DeriveKeys(testPassphrase, "other-user-id")
	require.NoError(t, err)
	assert.NotEqual(t, base.AuthKey, otherUser.AuthKey)
}

func TestDeriveKeys_RejectsEmptyInputs(t *testing.T) {
	_, err := DeriveKeys("", testUserID)
	assert.Error(t, err)

	_, err = DeriveKeys(testPassphrase, "")
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	plaintext := []byte(`{"notes":[{"content":"секретная заметка"}]}`)

	encrypted, err := Encrypt(plaintext, keys.EncryptionKey)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "секретная")

	decrypted, err := Decrypt(encrypted, keys.EncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_NonceIsUnique(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	first, err := Encrypt([]byte("same input"), keys.EncryptionKey)
	require.NoError(t, err)
	second, err := Encrypt([]byte("same input"), keys.EncryptionKey)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)
	wrongKeys, err := DeriveKeys("wrong passphrase here", testUserID)
	require.NoError(t, err)

	encrypted, err := Encrypt([]byte("payload"), keys.EncryptionKey)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, wrongKeys.EncryptionKey)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptBytes_TamperedCiphertextFails(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	encrypted, err := EncryptBytes([]byte("payload"), keys.EncryptionKey)
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xFF

	_, err = DecryptBytes(encrypted, keys.EncryptionKey)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptBytes_TooShort(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	_, err = DecryptBytes([]byte{1, 2, 3}, keys.EncryptionKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptBytes_RejectsEmptyPlaintext(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	_, err = EncryptBytes(nil, keys.EncryptionKey)
	assert.Error(t, err)
}

func TestEncryptBytes_RejectsNilKey(t *testing.T) {
	_, err := EncryptBytes([]byte("payload"), nil)
	assert.Error(t, err)
}

func TestHashAuthKey_DeterministicHex(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	first, err := HashAuthKey(keys.AuthKey)
	require.NoError(t, err)
	second, err := HashAuthKey(keys.AuthKey)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestVerifyAuthKey(t *testing.T) {
	keys, err := DeriveKeys(testPassphrase, testUserID)
	require.NoError(t, err)

	hash, err := HashAuthKey(keys.AuthKey)
	require.NoError(t, err)

	assert.NoError(t, VerifyAuthKey(keys.AuthKey, hash))

	wrong, err := DeriveKeys("wrong passphrase here", testUserID)
	require.NoError(t, err)
	assert.Error(t, VerifyAuthKey(wrong.AuthKey, hash))
}
