package password

import (
	"errors"
	"strings"
	"testing"
)

func secureArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      65536,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func testHashers(t *testing.T) map[string]Hasher {
	t.Helper()

	bc, err := NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	a2, err := NewArgon2(secureArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	return map[string]Hasher{
		AlgorithmBcrypt:   bc,
		AlgorithmArgon2id: a2,
	}
}

func TestHashAndVerify(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("Abc123")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if hash == "Abc123" {
				t.Fatal("hash must not equal plaintext")
			}
			if !h.Verify("Abc123", hash) {
				t.Fatal("expected password verification to succeed")
			}
			if h.Verify("Abc124", hash) {
				t.Fatal("expected wrong password verification to fail")
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			first, err := h.Hash("Secret9")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			second, err := h.Hash("Secret9")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if first == second {
				t.Fatal("expected two hashes of the same plaintext to differ")
			}
			if !h.Verify("Secret9", first) || !h.Verify("Secret9", second) {
				t.Fatal("expected both hashes to verify")
			}
		})
	}
}

func TestVerifyMalformedAndForeignHashes(t *testing.T) {
	hashers := testHashers(t)

	bcryptHash, err := hashers[AlgorithmBcrypt].Hash("Abc123")
	if err != nil {
		t.Fatalf("bcrypt Hash error: %v", err)
	}
	argonHash, err := hashers[AlgorithmArgon2id].Hash("Abc123")
	if err != nil {
		t.Fatalf("argon2 Hash error: %v", err)
	}

	cases := map[string][]string{
		AlgorithmBcrypt: {
			"",
			"not-a-hash",
			"$2a$10$short",
			argonHash,
		},
		AlgorithmArgon2id: {
			"",
			"not-a-hash",
			"$argon2id$v=19$m=65536,t=3,p=2$@@@$@@@",
			"$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
			bcryptHash,
		},
	}

	for name, inputs := range cases {
		h := hashers[name]
		for _, in := range inputs {
			if h.Verify("Abc123", in) {
				t.Fatalf("%s: expected verify=false for %q", name, in)
			}
		}
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	for name, h := range testHashers(t) {
		if _, err := h.Hash(""); err == nil {
			t.Fatalf("%s: expected empty password to be rejected", name)
		}
	}
}

func TestArgon2PHCPrefix(t *testing.T) {
	h, err := NewArgon2(secureArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	hash, err := h.Hash("P@ssw0rd-Ascii")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}
}

func TestArgon2NeedsUpgrade(t *testing.T) {
	weak := secureArgon2Config()
	weak.Time = 1
	weakHasher, err := NewArgon2(weak)
	if err != nil {
		t.Fatalf("NewArgon2 weak error: %v", err)
	}
	strong, err := NewArgon2(secureArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 strong error: %v", err)
	}

	hash, err := weakHasher.Hash("Abc123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	up, err := strong.NeedsUpgrade(hash)
	if err != nil {
		t.Fatalf("NeedsUpgrade error: %v", err)
	}
	if !up {
		t.Fatal("expected hash with lower time cost to need upgrade")
	}
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	cfg := secureArgon2Config()
	cfg.Memory = 1024
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected weak memory configuration to be rejected")
	}
}

func TestNewSelectsAlgorithm(t *testing.T) {
	cfg := DefaultConfig()
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, ok := h.(*Bcrypt); !ok {
		t.Fatalf("expected default hasher to be bcrypt, got %T", h)
	}

	cfg.Algorithm = AlgorithmArgon2id
	h, err = New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, ok := h.(*Argon2); !ok {
		t.Fatalf("expected argon2 hasher, got %T", h)
	}

	cfg.Algorithm = "md5"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected unsupported algorithm to be rejected")
	}
}

func TestNewBcryptCostBounds(t *testing.T) {
	if _, err := NewBcrypt(99); err == nil {
		t.Fatal("expected out-of-range cost to be rejected")
	}
	b, err := NewBcrypt(0)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	hash, err := b.Hash("Abc123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	cost, err := b.Cost(hash)
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, cost)
	}
}

func TestBcryptRejectsOverlongInput(t *testing.T) {
	b, err := NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	if _, err := b.Hash(strings.Repeat("a", MaxBcryptBytes+1)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	hash, err := b.Hash(strings.Repeat("a", MaxBcryptBytes))
	if err != nil {
		t.Fatalf("Hash error at the limit: %v", err)
	}
	if !b.Verify(strings.Repeat("a", MaxBcryptBytes), hash) {
		t.Fatal("expected verification at the limit")
	}
}
