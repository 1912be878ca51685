package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"book-catalog/internal/config"
	"book-catalog/internal/database"
	"book-catalog/internal/models"

	"github.com/go-test/deep"
)

func newJSONStore(t *testing.T) *JSONStore {
	return NewJSONStore(filepath.Join(t.TempDir(), "data", "db.json"))
}

func newGormStore(t *testing.T) *GormStore {
	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "catalog.db"),
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// exercise runs the same contract against any backend.
func exercise(t *testing.T, s Store, seedAuthor func(models.Author)) {
	t.Helper()

	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users on empty store: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("empty store has %d users", len(users))
	}

	alice := models.User{ID: "u1", Username: "alice", PasswordHash: "h1"}
	bobby := models.User{ID: "u2", Username: "bobby", PasswordHash: "h2"}
	for _, u := range []models.User{alice, bobby} {
		if err := s.AddUser(u); err != nil {
			t.Fatalf("AddUser(%s): %v", u.Username, err)
		}
	}

	names, err := s.Usernames()
	if err != nil {
		t.Fatalf("Usernames: %v", err)
	}
	if diff := deep.Equal(names, []string{"alice", "bobby"}); diff != nil {
		t.Errorf("Usernames: %v", diff)
	}

	users, _ = s.Users()
	if diff := deep.Equal(users, []models.User{alice, bobby}); diff != nil {
		t.Errorf("Users: %v", diff)
	}

	seedAuthor(models.Author{ID: "a1", Name: "Frank Herbert"})

	dune := models.Book{ID: "b1", Title: "Dune", AuthorID: "a1"}
	if err := s.AddBook(dune); err != nil {
		t.Fatalf("AddBook: %v", err)
	}

	got, err := s.FindBook("b1")
	if err != nil {
		t.Fatalf("FindBook: %v", err)
	}
	if diff := deep.Equal(got, dune); diff != nil {
		t.Errorf("FindBook: %v", diff)
	}

	if _, err := s.FindBook("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBook(missing) error = %v, want ErrNotFound", err)
	}

	author, err := s.FindAuthor("a1")
	if err != nil {
		t.Fatalf("FindAuthor: %v", err)
	}
	if author.Name != "Frank Herbert" {
		t.Errorf("FindAuthor name = %q", author.Name)
	}
	if _, err := s.FindAuthor("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindAuthor(nobody) error = %v, want ErrNotFound", err)
	}

	books, _ := s.Books()
	if len(books) != 1 {
		t.Errorf("Books len = %d, want 1", len(books))
	}
}

func TestJSONStore_Contract(t *testing.T) {
	s := newJSONStore(t)
	exercise(t, s, func(a models.Author) {
		// authors are populated out-of-band: edit the document directly
		s.mu.Lock()
		defer s.mu.Unlock()
		doc, err := s.loadLocked()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		doc.Authors = append(doc.Authors, a)
		if err := s.saveLocked(doc); err != nil {
			t.Fatalf("save: %v", err)
		}
	})
}

func TestGormStore_Contract(t *testing.T) {
	s := newGormStore(t)
	exercise(t, s, func(a models.Author) {
		if err := s.DB.Create(&a).Error; err != nil {
			t.Fatalf("seed author: %v", err)
		}
	})
}

func TestJSONStore_DocumentLayout(t *testing.T) {
	s := newJSONStore(t)
	if err := s.AddUser(models.User{ID: "u1", Username: "alice", PasswordHash: "hash"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	for _, want := range []string{`"users"`, `"books": []`, `"authors": []`, `"password": "hash"`} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %s:\n%s", want, text)
		}
	}

	// a second handle on the same file sees the write
	other := NewJSONStore(s.path)
	names, err := other.Usernames()
	if err != nil {
		t.Fatalf("Usernames: %v", err)
	}
	if len(names) != 1 || names[0] != "alice" {
		t.Errorf("Usernames = %v", names)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	s := newJSONStore(t)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Books(); err == nil {
		t.Error("Books on corrupt file error = nil, want error")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	if _, err := Open(cfg); err == nil {
		t.Error("Open(mongo) error = nil, want error")
	}
}
