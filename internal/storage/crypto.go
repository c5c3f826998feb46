package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
)

// EncryptValue encrypts a value using AES-256-GCM.
// The encryptionKey must be exactly 32 bytes.
// Returns hex-encoded nonce+ciphertext concatenated.
func EncryptValue(value string, encryptionKey []byte) ([]byte, error) {
	if len(encryptionKey) != 32 {
		return nil, ErrInvalidKey
	}

	// Cannot fail: key size is validated above.
	block, _ := aes.NewCipher(encryptionKey) //nolint:errcheck
	gcm, _ := cipher.NewGCM(block)           //nolint:errcheck

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(value), nil)

	return []byte(hex.EncodeToString(ciphertext)), nil
}

// DecryptValue decrypts a value encrypted with EncryptValue.
// The encryptionKey must be the same 32-byte key used for encryption.
func DecryptValue(encrypted []byte, encryptionKey []byte) (string, error) {
	if len(encryptionKey) != 32 {
		return "", ErrInvalidKey
	}

	ciphertext := make([]byte, hex.DecodedLen(len(encrypted)))
	n, err := hex.Decode(ciphertext, encrypted)
	if err != nil {
		return "", ErrDecryption
	}
	ciphertext = ciphertext[:n]

	block, _ := aes.NewCipher(encryptionKey) //nolint:errcheck
	gcm, _ := cipher.NewGCM(block)           //nolint:errcheck

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", ErrDecryption
	}

	plaintext, err := gcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plaintext), nil
}
