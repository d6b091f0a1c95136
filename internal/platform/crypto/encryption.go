package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealedPrefix = "v1:"

var ErrMalformed = errors.New("sealed value is malformed")

// Service seals values with XChaCha20-Poly1305. A zero-value secret leaves values in plain text.
type Service struct {
	aead cipher.AEAD
}

func New(secret string) (*Service, error) {
	if secret == "" {
		return &Service{}, nil
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte("hrms-portal"), []byte("session-storage"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s != nil && s.aead != nil
}

func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return plain, nil
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Service) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return ciphertext, nil
	}
	if len(ciphertext) < s.aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:s.aead.NonceSize()]
	data := ciphertext[s.aead.NonceSize():]
	return s.aead.Open(nil, nonce, data, nil)
}

// SealString returns a printable form of value suitable for text columns.
func (s *Service) SealString(value string) (string, error) {
	if value == "" || !s.Configured() {
		return value, nil
	}
	sealed, err := s.Encrypt([]byte(value))
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

func (s *Service) OpenString(value string) (string, error) {
	if value == "" || !s.Configured() {
		return value, nil
	}
	if len(value) < len(sealedPrefix) || value[:len(sealedPrefix)] != sealedPrefix {
		return "", ErrMalformed
	}
	raw, err := base64.RawStdEncoding.DecodeString(value[len(sealedPrefix):])
	if err != nil {
		return "", ErrMalformed
	}
	plain, err := s.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
