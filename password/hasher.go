package password

import (
	"errors"
	"fmt"
)

// Algorithm names accepted by [Config].
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Hasher hashes plaintext passwords and verifies them against stored hashes.
//
// Verify reports false for a mismatch and also for any hash string the
// implementation cannot parse, including hashes produced by other algorithms.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) bool
}

// Config selects and tunes a [Hasher].
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Algorithm  string
	BcryptCost int
	Argon2     Argon2Config
}

// DefaultConfig returns bcrypt at cost 10 with secure argon2id fallbacks.
func DefaultConfig() Config {
	return Config{
		Algorithm:  AlgorithmBcrypt,
		BcryptCost: DefaultBcryptCost,
		Argon2: Argon2Config{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

// New builds the [Hasher] named by cfg.Algorithm. An empty algorithm selects bcrypt.
func New(cfg Config) (Hasher, error) {
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.BcryptCost)
	case AlgorithmArgon2id:
		return NewArgon2(cfg.Argon2)
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
}

var errEmptyPassword = errors.New("password must not be empty")
