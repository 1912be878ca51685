package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	HasherBcrypt = "bcrypt"
	HasherPBKDF2 = "pbkdf2"

	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	pbkdf2SaltLen    = 16

	// bcrypt reads at most 72 bytes; longer input is reduced to
	// base64(SHA-256) first and the stored hash carries this marker.
	bcryptMaxInput  = 72
	prehashedPrefix = "$sha256"
)

var ErrEmptyPassword = errors.New("password is empty")

// Hasher produces one-way password hashes. Verification does not depend
// on the configured algorithm: CheckPassword recognizes every stored format.
type Hasher struct {
	Algorithm  string
	BcryptCost int
}

// NewHasher validates the algorithm name; cost <= 0 means bcrypt.DefaultCost.
func NewHasher(algorithm string, cost int) (*Hasher, error) {
	switch algorithm {
	case "":
		algorithm = HasherBcrypt
	case HasherBcrypt, HasherPBKDF2:
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if algorithm == HasherBcrypt && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	return &Hasher{Algorithm: algorithm, BcryptCost: cost}, nil
}

// HashPassword returns a salted hash of plaintext suitable for storage.
func (h *Hasher) HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if h.Algorithm == HasherPBKDF2 {
		return hashPBKDF2(plaintext)
	}
	marker := ""
	input := []byte(plaintext)
	if len(input) > bcryptMaxInput {
		marker = prehashedPrefix
		input = prehash(plaintext)
	}
	b, err := bcrypt.GenerateFromPassword(input, h.BcryptCost)
	if err != nil {
		return "", err
	}
	return marker + string(b), nil
}

func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// CheckPassword reports whether plaintext matches stored.
// bcrypt hashes start with "$2" (or "$sha256$2" for pre-hashed long
// input); anything else is read as PBKDF2 "salt$hash".
func CheckPassword(plaintext, stored string) bool {
	if plaintext == "" || stored == "" {
		return false
	}
	if rest, ok := strings.CutPrefix(stored, prehashedPrefix); ok {
		if !strings.HasPrefix(rest, "$2") {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(rest), prehash(plaintext)) == nil
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
	}
	return checkPBKDF2(plaintext, stored)
}

func hashPBKDF2(plaintext string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(sum), nil
}

func checkPBKDF2(plaintext, stored string) bool {
	saltStr, hashStr, ok := strings.Cut(stored, "$")
	if !ok || strings.Contains(hashStr, "$") {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltStr)
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(hashStr)
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
