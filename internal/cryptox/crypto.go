// Package cryptox derives keys from passphrases and seals payloads with
// AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	SaltSize  = 16
	KeySize   = 32
	NonceSize = 12
)

// ErrDecrypt is returned when a payload fails authentication, usually
// because the passphrase is wrong.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches passphrase into a 32-byte key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under key with a fresh random nonce.
func Seal(key, plaintext, additional []byte) (nonce, ciphertext []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, additional), nil
}

// Open authenticates and decrypts ciphertext produced by Seal.
func Open(key, nonce, ciphertext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce length %d", ErrDecrypt, len(nonce))
	}

	pt, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, ErrDecrypt
	}
	return pt, nil
}
