package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = bcrypt.DefaultCost

// MaxBcryptBytes is the longest input bcrypt accepts.
const MaxBcryptBytes = 72

// ErrTooLong is returned by Hash for plaintexts the algorithm cannot take in full.
var ErrTooLong = errors.New("password too long")

// Bcrypt hashes passwords with bcrypt.
//
// Bcrypt instances are intended to be configured during initialization and then treated as immutable.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A zero cost selects [DefaultBcryptCost].
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns a salted bcrypt hash of plaintext.
//
// bcrypt only reads the first 72 bytes; longer inputs are rejected rather than
// silently truncated.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errEmptyPassword
	}
	if len(plaintext) > MaxBcryptBytes {
		return "", fmt.Errorf("%w: bcrypt accepts at most %d bytes", ErrTooLong, MaxBcryptBytes)
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify compares plaintext with a bcrypt hash.
func (b *Bcrypt) Verify(plaintext, encodedHash string) bool {
	if encodedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(plaintext)) == nil
}

// Cost reports the cost encoded in a stored hash. Callers can compare it with
// the configured cost to decide on a rehash.
func (b *Bcrypt) Cost(encodedHash string) (int, error) {
	return bcrypt.Cost([]byte(encodedHash))
}
