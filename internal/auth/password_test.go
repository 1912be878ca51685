package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("", 0)
	if err != nil {
		t.Fatalf("NewHasher default: %v", err)
	}
	if h.Algorithm != HasherBcrypt || h.BcryptCost != bcrypt.DefaultCost {
		t.Errorf("defaults = %+v", h)
	}

	if _, err := NewHasher("md5", 0); err == nil {
		t.Error("unknown algorithm error = nil, want error")
	}
	if _, err := NewHasher(HasherBcrypt, 99); err == nil {
		t.Error("bcrypt cost 99 error = nil, want error")
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, algo := range []string{HasherBcrypt, HasherPBKDF2} {
		t.Run(algo, func(t *testing.T) {
			h, err := NewHasher(algo, bcrypt.MinCost)
			if err != nil {
				t.Fatalf("NewHasher: %v", err)
			}

			first, err := h.HashPassword("secret1")
			if err != nil {
				t.Fatalf("HashPassword: %v", err)
			}
			second, err := h.HashPassword("secret1")
			if err != nil {
				t.Fatalf("HashPassword: %v", err)
			}

			if first == "secret1" || strings.Contains(first, "secret1") {
				t.Error("hash leaks plaintext")
			}
			if first == second {
				t.Error("same plaintext should hash differently (random salt)")
			}
			if !CheckPassword("secret1", first) || !CheckPassword("secret1", second) {
				t.Error("both hashes should verify against the plaintext")
			}
			if CheckPassword("secret2", first) {
				t.Error("different plaintext must not verify")
			}
		})
	}
}

func TestHashPassword_Empty(t *testing.T) {
	h, _ := NewHasher(HasherPBKDF2, 0)
	if _, err := h.HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("HashPassword(\"\") error = %v, want ErrEmptyPassword", err)
	}
}

func TestCheckPassword_CrossFormat(t *testing.T) {
	bc, _ := NewHasher(HasherBcrypt, bcrypt.MinCost)
	pb, _ := NewHasher(HasherPBKDF2, 0)

	bcHash, _ := bc.HashPassword("hunter22")
	pbHash, _ := pb.HashPassword("hunter22")

	// switching the configured hasher keeps old hashes verifiable
	if !CheckPassword("hunter22", bcHash) {
		t.Error("bcrypt hash should verify")
	}
	if !CheckPassword("hunter22", pbHash) {
		t.Error("pbkdf2 hash should verify")
	}
}

func TestCheckPassword_Invalid(t *testing.T) {
	pb, _ := NewHasher(HasherPBKDF2, 0)
	hash, _ := pb.HashPassword("TestPass456")

	cases := []struct {
		name, plain, stored string
	}{
		{"empty plaintext", "", hash},
		{"empty stored", "TestPass456", ""},
		{"no separator", "TestPass456", "invalid-format"},
		{"too many parts", "TestPass456", "a$b$c"},
		{"bad base64", "TestPass456", "!!!$???"},
		{"plaintext stored", "TestPass456", "TestPass456"},
	}
	for _, tc := range cases {
		if CheckPassword(tc.plain, tc.stored) {
			t.Errorf("%s: CheckPassword = true, want false", tc.name)
		}
	}
}

func BenchmarkHashPasswordPBKDF2(b *testing.B) {
	h, _ := NewHasher(HasherPBKDF2, 0)
	for i := 0; i < b.N; i++ {
		h.HashPassword("BenchPassword")
	}
}

func TestHashPassword_LongInput(t *testing.T) {
	h, err := NewHasher(HasherBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	long := strings.Repeat("a", 80)
	hash, err := h.HashPassword(long)
	if err != nil {
		t.Fatalf("HashPassword(80 bytes): %v", err)
	}
	if !strings.HasPrefix(hash, prehashedPrefix+"$2") {
		t.Errorf("hash = %q, want pre-hashed bcrypt", hash)
	}
	if !CheckPassword(long, hash) {
		t.Error("80-byte password does not verify")
	}
	// bcrypt alone would ignore everything past byte 72
	if CheckPassword(strings.Repeat("a", 79)+"b", hash) {
		t.Error("password differing after byte 72 must not verify")
	}

	exact := strings.Repeat("b", bcryptMaxInput)
	hash, err = h.HashPassword(exact)
	if err != nil {
		t.Fatalf("HashPassword(72 bytes): %v", err)
	}
	if strings.HasPrefix(hash, prehashedPrefix) {
		t.Error("72-byte password should use plain bcrypt")
	}
	if !CheckPassword(exact, hash) {
		t.Error("72-byte password does not verify")
	}
}

func TestCheckPassword_MalformedPrehashed(t *testing.T) {
	if CheckPassword("secret1", prehashedPrefix+"garbage") {
		t.Error("malformed pre-hashed value verified")
	}
}
