package storage

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Sealed encrypts values with AES-GCM before they reach the inner medium.
// Keys stay in clear text so backends can still address them.
type Sealed struct {
	inner Storage
	aead  cipher.AEAD
}

func NewSealed(inner Storage, key string) (*Sealed, error) {
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	value, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(value)
}

func (s *Sealed) SetMany(ctx context.Context, entries map[string]string) error {
	sealed := make(map[string]string, len(entries))
	for k, v := range entries {
		enc, err := s.seal(v)
		if err != nil {
			return err
		}
		sealed[k] = enc
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

func (s *Sealed) seal(plain string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("storage: sealed value: %w", err)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", errors.New("storage: sealed value too short")
	}
	nonce, data := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("storage: sealed value: %w", err)
	}
	return string(plain), nil
}

func decodeKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, errors.New("storage: empty encryption key")
	}
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
