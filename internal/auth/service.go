package auth

import (
	"errors"
	"fmt"
	"strings"

	"book-catalog/internal/models"
	"book-catalog/internal/store"
	"book-catalog/internal/util"

	"github.com/google/uuid"
)

const (
	MsgUsernameLength   = "Username must have at least 5 characters"
	MsgPasswordLength   = "Password must have at least 5 characters"
	MsgUsernameRequired = "Username is required"
	MsgPasswordRequired = "Password is required"
	MsgConfirmRequired  = "Confirm password is required"
	MsgPasswordMismatch = "Password do not match"
	MsgUsernameTaken    = "This username is already taken"
	MsgInvalidLogin     = "Invalid username or password"

	minUsernameLen = 5
	minPasswordLen = 5
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

// ValidationError carries the user-facing messages of a rejected form.
type ValidationError struct {
	Messages []string
	Err      error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SessionState is the part of a session the login decision mutates.
type SessionState interface {
	Authenticate(username string)
}

type Credentials struct {
	Username string
	Password string
}

type SignupForm struct {
	Username  string
	Password  string
	Password2 string
}

// Service performs signup and login against an injected record store.
type Service struct {
	Store  store.Store
	Hasher *Hasher

	// compared against when the username is unknown, so both failure
	// paths cost one hash verification
	dummyHash string
}

func NewService(st store.Store, hasher *Hasher) (*Service, error) {
	dummy, err := hasher.HashPassword("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{Store: st, Hasher: hasher, dummyHash: dummy}, nil
}

// Login loads the user collection and applies the login decision.
func (s *Service) Login(creds Credentials, sess SessionState) error {
	users, err := s.Store.Users()
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	return s.login(creds, sess, users)
}

// Login marks sess authenticated when creds match a user in users.
// Unknown user and wrong password both yield ErrInvalidCredentials.
// users is never modified.
func Login(creds Credentials, sess SessionState, users []models.User) error {
	return (&Service{}).login(creds, sess, users)
}

func (s *Service) login(creds Credentials, sess SessionState, users []models.User) error {
	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)

	var found *models.User
	for i := range users {
		if users[i].Username == username {
			found = &users[i]
			break
		}
	}

	if found == nil {
		if s.dummyHash != "" {
			_ = CheckPassword(password, s.dummyHash)
		}
		return ErrInvalidCredentials
	}
	if !CheckPassword(password, found.PasswordHash) {
		return ErrInvalidCredentials
	}

	sess.Authenticate(found.Username)
	return nil
}

// ValidateSignup returns the form errors in display order, nil when valid.
// Fields are expected to be trimmed already.
func ValidateSignup(form SignupForm) []string {
	var v util.Validator
	v.MinLength(form.Username, minUsernameLen, MsgUsernameLength).
		MinLength(form.Password, minPasswordLen, MsgPasswordLength).
		NotEmpty(form.Username, MsgUsernameRequired).
		NotEmpty(form.Password, MsgPasswordRequired).
		NotEmpty(form.Password2, MsgConfirmRequired).
		Equals(form.Password, form.Password2, MsgPasswordMismatch)
	return v.Errors()
}

// UsernameAvailable reports whether candidate is absent from existing.
// Comparison is exact and case-sensitive.
func UsernameAvailable(candidate string, existing []string) bool {
	for _, name := range existing {
		if name == candidate {
			return false
		}
	}
	return true
}

// Signup validates the form, checks uniqueness and persists a new user.
// Rejections are returned as *ValidationError; anything else is a store failure.
func (s *Service) Signup(form SignupForm) (models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Password = strings.TrimSpace(form.Password)
	form.Password2 = strings.TrimSpace(form.Password2)

	if msgs := ValidateSignup(form); len(msgs) > 0 {
		return models.User{}, &ValidationError{Messages: msgs}
	}

	existing, err := s.Store.Usernames()
	if err != nil {
		return models.User{}, fmt.Errorf("load usernames: %w", err)
	}
	if !UsernameAvailable(form.Username, existing) {
		return models.User{}, &ValidationError{
			Messages: []string{MsgUsernameTaken},
			Err:      ErrUsernameTaken,
		}
	}

	hash, err := s.Hasher.HashPassword(form.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     form.Username,
		PasswordHash: hash,
	}
	if err := s.Store.AddUser(user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}
