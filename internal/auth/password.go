// internal/auth/password.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidHash = errors.New("invalid password hash format")

type PasswordConfig struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultPasswordConfig is argon2id with 64MiB of memory and a single pass.
var DefaultPasswordConfig = PasswordConfig{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

type PasswordHasher struct {
	config PasswordConfig

	dummyOnce sync.Once
	dummy     string
}

func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithConfig(DefaultPasswordConfig)
}

func NewPasswordHasherWithConfig(config PasswordConfig) *PasswordHasher {
	return &PasswordHasher{config: config}
}

// Hash returns the password encoded as
// $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
func (p *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, p.config.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.config.Time, p.config.Memory, p.config.Threads, p.config.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.config.Memory,
		p.config.Time,
		p.config.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify compares password against an encoded hash in constant time.
func (p *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	config, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(password), salt, config.Time, config.Memory, config.Threads, config.KeyLen)
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

// VerifyDummy burns the same work as Verify against a throwaway hash. Used
// when the account does not exist so the response time does not reveal it.
func (p *PasswordHasher) VerifyDummy(password string) {
	p.dummyOnce.Do(func() {
		p.dummy, _ = p.Hash("dummy-password-for-timing")
	})
	if p.dummy != "" {
		_, _ = p.Verify(password, p.dummy)
	}
}

func decodeHash(encodedHash string) (PasswordConfig, []byte, []byte, error) {
	var config PasswordConfig

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return config, nil, nil, ErrInvalidHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &config.Memory, &config.Time, &config.Threads); err != nil {
		return config, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return config, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return config, nil, nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}

	config.SaltLen = uint32(len(salt))
	config.KeyLen = uint32(len(key))
	return config, salt, key, nil
}
