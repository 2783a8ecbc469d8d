package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Lower bounds accepted both for configuration and for stored hashes.
const (
	minArgon2MemoryKB = 8 * 1024
	minArgon2Salt     = 16
	minArgon2Key      = 16
)

var errInvalidPHC = errors.New("invalid argon2id hash")

// phc is the standard unpadded base64 used by the PHC string format.
var phc = base64.RawStdEncoding

// Argon2Config holds argon2id cost parameters. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (c Argon2Config) validate() error {
	switch {
	case c.Memory < minArgon2MemoryKB:
		return fmt.Errorf("argon2 memory must be >= %d KiB", minArgon2MemoryKB)
	case c.Time < 1:
		return errors.New("argon2 time must be >= 1")
	case c.Parallelism < 1:
		return errors.New("argon2 parallelism must be >= 1")
	case c.SaltLength < minArgon2Salt:
		return fmt.Errorf("argon2 salt length must be >= %d", minArgon2Salt)
	case c.KeyLength < minArgon2Key:
		return fmt.Errorf("argon2 key length must be >= %d", minArgon2Key)
	}
	return nil
}

// Argon2 hashes passwords with argon2id and encodes them as PHC strings:
//
//	$argon2id$v=19$m=<KiB>,t=<passes>,p=<lanes>$<salt>$<key>
type Argon2 struct {
	config Argon2Config
}

// NewArgon2 rejects parameters below the package minimums.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Argon2{config: cfg}, nil
}

// Hash returns a PHC-encoded argon2id hash of plaintext. The input bytes are
// used as given, without Unicode normalization.
func (a *Argon2) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errEmptyPassword
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	c := a.config
	key := argon2.IDKey([]byte(plaintext), salt, c.Time, c.Memory, c.Parallelism, c.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, c.Memory, c.Time, c.Parallelism,
		phc.EncodeToString(salt), phc.EncodeToString(key)), nil
}

// Verify recomputes the key with the parameters stored in encodedHash and
// compares in constant time. Anything that does not decode never verifies.
func (a *Argon2) Verify(plaintext, encodedHash string) bool {
	params, salt, key, err := decodePHC(encodedHash)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(plaintext), salt, params.Time, params.Memory, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(got, key) == 1
}

// NeedsUpgrade reports whether encodedHash was produced with weaker
// parameters, or a different key length, than a is configured with.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	params, _, _, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}
	c := a.config
	return params.Memory < c.Memory ||
		params.Time < c.Time ||
		params.Parallelism < c.Parallelism ||
		params.KeyLength != c.KeyLength, nil
}

// decodePHC splits an argon2id PHC string into its parameters, salt and key.
// SaltLength and KeyLength of the returned config reflect the decoded bytes.
func decodePHC(encoded string) (Argon2Config, []byte, []byte, error) {
	var params Argon2Config

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return params, nil, nil, errInvalidPHC
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: version", errInvalidPHC)
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: parameters", errInvalidPHC)
	}
	if params.Memory < minArgon2MemoryKB || params.Time < 1 || params.Parallelism < 1 {
		return params, nil, nil, fmt.Errorf("%w: parameters out of range", errInvalidPHC)
	}

	salt, err := phc.DecodeString(fields[4])
	if err != nil || len(salt) < minArgon2Salt {
		return params, nil, nil, fmt.Errorf("%w: salt", errInvalidPHC)
	}
	key, err := phc.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: key", errInvalidPHC)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	return params, salt, key, nil
}
