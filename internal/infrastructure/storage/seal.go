package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Sealer encrypts persisted values at rest with nacl/secretbox. The stored
// form is base64(nonce || box).
type Sealer struct {
	key [32]byte
}

// NewSealer parses a 64-character hex key.
func NewSealer(hexKey string) (*Sealer, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, errors.New("sealing key must be 64 hex characters (32 bytes)")
	}
	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	if len(raw) < nonceSize {
		return "", errors.New("open sealed value: truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errors.New("open sealed value: authentication failed")
	}
	return string(plaintext), nil
}
