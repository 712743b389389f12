package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize  = 16
	kdfIters  = 10000
	keySize   = 32
	minSecret = 32
)

var (
	ErrSecretTooShort = fmt.Errorf("session secret must be at least %d characters", minSecret)

	// ErrInvalidSeal covers tampering, truncation and expiry alike.
	// Callers treat it as "logged out", never as a fatal condition.
	ErrInvalidSeal = errors.New("invalid session seal")
)

// envelope wraps the record with its issue time so expiry is covered by
// the authenticated ciphertext, not just the cookie's max age.
type envelope struct {
	Record   Record    `json:"record"`
	IssuedAt time.Time `json:"issued_at"`
}

// Sealer encrypts and authenticates session records with AES-256-GCM,
// the key derived from the configured secret with PBKDF2-SHA256 and a
// fresh salt per seal.
type Sealer struct {
	secret []byte
	maxAge time.Duration
}

func NewSealer(secret string, maxAge time.Duration) (*Sealer, error) {
	if len(secret) < minSecret {
		return nil, ErrSecretTooShort
	}
	return &Sealer{secret: []byte(secret), maxAge: maxAge}, nil
}

// Seal produces an opaque base64url blob carrying rec.
func (s *Sealer) Seal(rec Record) (string, error) {
	env := envelope{Record: rec, IssuedAt: time.Now().UTC()}
	plain, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := s.cipherFor(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plain, nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Unseal verifies and decrypts a sealed blob. Any defect (bad encoding,
// truncation, wrong key, flipped bits, expiry) comes back as
// ErrInvalidSeal.
func (s *Sealer) Unseal(value string) (Record, error) {
	blob, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Anonymous(), ErrInvalidSeal
	}
	if len(blob) < saltSize {
		return Anonymous(), ErrInvalidSeal
	}

	salt := blob[:saltSize]
	gcm, err := s.cipherFor(salt)
	if err != nil {
		return Anonymous(), ErrInvalidSeal
	}
	rest := blob[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return Anonymous(), ErrInvalidSeal
	}

	plain, err := gcm.Open(nil, rest[:gcm.NonceSize()], rest[gcm.NonceSize():], nil)
	if err != nil {
		return Anonymous(), ErrInvalidSeal
	}

	var env envelope
	if err := json.Unmarshal(plain, &env); err != nil {
		return Anonymous(), ErrInvalidSeal
	}
	if s.maxAge > 0 && time.Since(env.IssuedAt) > s.maxAge {
		return Anonymous(), ErrInvalidSeal
	}
	return env.Record, nil
}

func (s *Sealer) cipherFor(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(s.secret, salt, kdfIters, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
