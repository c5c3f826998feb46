package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptValue(t *testing.T) {
	t.Parallel()
	encryptionKey := []byte("this-is-a-32-byte-key-for-aes!!!")

	tests := []struct {
		name      string
		value     string
		key       []byte
		errorType error
	}{
		{name: "round trip", value: "4f2c9a0b1d7e", key: encryptionKey},
		{name: "empty value", value: "", key: encryptionKey},
		{name: "long value", value: strings.Repeat("x", 10000), key: encryptionKey},
		{name: "special characters", value: "tok!@#$%^&*(){}[]|:;<>?,./~`", key: encryptionKey},
		{name: "key too short", value: "v", key: []byte("short-key"), errorType: ErrInvalidKey},
		{name: "key too long", value: "v", key: []byte("this-is-a-key-that-is-way-too-long-for-aes-256"), errorType: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			encrypted, err := EncryptValue(tt.value, tt.key)
			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("EncryptValue() error = %v, want %v", err, tt.errorType)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncryptValue() unexpected error: %v", err)
			}
			if tt.value != "" && strings.Contains(string(encrypted), tt.value) {
				t.Error("ciphertext contains the plaintext")
			}

			decrypted, err := DecryptValue(encrypted, tt.key)
			if err != nil {
				t.Fatalf("DecryptValue() unexpected error: %v", err)
			}
			if decrypted != tt.value {
				t.Errorf("DecryptValue() = %q, want %q", decrypted, tt.value)
			}
		})
	}
}

func TestEncryptValueUsesFreshNonce(t *testing.T) {
	t.Parallel()
	key := []byte("this-is-a-32-byte-key-for-aes!!!")

	a, err := EncryptValue("same", key)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncryptValue("same", key)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) == string(b) {
		t.Error("two encryptions of the same value produced identical output")
	}
}

func TestDecryptValueErrors(t *testing.T) {
	t.Parallel()
	key := []byte("this-is-a-32-byte-key-for-aes!!!")
	otherKey := []byte("another-32-byte-key-for-aes-256!")

	valid, err := EncryptValue("secret", key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		encrypted []byte
		key       []byte
		want      error
	}{
		{"invalid key size", valid, []byte("short"), ErrInvalidKey},
		{"wrong key", valid, otherKey, ErrDecryption},
		{"not hex", []byte("zz-not-hex"), key, ErrDecryption},
		{"too short", []byte("abcd"), key, ErrDecryption},
		{"tampered", tamper(valid), key, ErrDecryption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecryptValue(tt.encrypted, tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecryptValue() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// tamper flips the last hex digit of an encrypted value.
func tamper(encrypted []byte) []byte {
	out := append([]byte(nil), encrypted...)
	last := len(out) - 1
	if out[last] == '0' {
		out[last] = '1'
	} else {
		out[last] = '0'
	}
	return out
}
