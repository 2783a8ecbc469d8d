package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature is returned when the token signature does not match the configured secret
	// or the token uses an algorithm other than HS256.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired is returned for a correctly signed token whose expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned when the token cannot be decoded or its claims are not the expected shape.
	ErrMalformed = errors.New("token malformed")
)

const minSecretBytes = 16

// Config defines the signing secret and validity window for issued tokens.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
	// Now overrides the clock used for issuance and expiry checks. Nil uses time.Now.
	Now func() time.Time
}

// Manager issues and parses tokens. It is safe for concurrent use.
type Manager struct {
	config Config
	parser *jwt.Parser
	// loose decodes non-canonical base64 to tell a tampered signature
	// segment apart from a token that is not a JWT at all.
	loose *jwt.Parser
}

// Claims is the identity payload carried by every token.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretBytes)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Secret = append([]byte(nil), cfg.Secret...)

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
		jwt.WithStrictDecoding(),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}

	return &Manager{
		config: cfg,
		parser: jwt.NewParser(options...),
		loose:  jwt.NewParser(),
	}, nil
}

// TTL reports the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue signs a token carrying email and fullName.
func (m *Manager) Issue(email, fullName string) (string, error) {
	token, _, err := m.IssueClaims(email, fullName)
	return token, err
}

// IssueClaims signs a token and also returns the claims embedded in it.
func (m *Manager) IssueClaims(email, fullName string) (string, *Claims, error) {
	if email == "" {
		return "", nil, errors.New("email claim required")
	}

	now := m.config.Now()
	claims := &Claims{
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.config.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies tokenStr and returns its claims.
//
// The returned error wraps exactly one of ErrInvalidSignature, ErrExpired or
// ErrMalformed, together with the underlying library error.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := m.parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && m.decodesLoosely(tokenStr) {
			return nil, fmt.Errorf("%w: non-canonical segment encoding: %w", ErrInvalidSignature, err)
		}
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, jwt.ErrTokenInvalidClaims)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrMalformed)
	}
	return claims, nil
}

// decodesLoosely reports whether tokenStr is a structurally valid JWT once
// unused trailing base64 bits are ignored.
func (m *Manager) decodesLoosely(tokenStr string) bool {
	_, _, err := m.loose.ParseUnverified(tokenStr, &Claims{})
	return err == nil
}

// classify maps library errors onto the three parse failure kinds. Ordering
// matters: the library reports signature problems before claim validation, so
// a token that is both tampered and expired never carries ErrTokenExpired.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
