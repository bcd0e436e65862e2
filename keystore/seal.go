package keystore

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

type aeadSealer struct {
	cipher.AEAD
}

// seal encrypts plain under a fresh random nonce; the nonce is prefixed to
// the ciphertext.
func (a aeadSealer) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, a.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return a.Seal(nonce, nonce, plain, nil), nil
}

// open decrypts a nonce-prefixed ciphertext. Authentication failure means
// the blob was produced under a different store secret or has been
// tampered with; both report ErrCorrupted.
func (a aeadSealer) open(sealed []byte) ([]byte, error) {
	if len(sealed) < a.NonceSize() {
		return nil, fmt.Errorf("%w: sealed blob too short", ErrCorrupted)
	}
	nonce, ciphertext := sealed[:a.NonceSize()], sealed[a.NonceSize():]
	plain, err := a.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return plain, nil
}
