package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"book-catalog/internal/models"
)

// document is the on-disk layout: {"users": [...], "books": [...], "authors": [...]}.
type document struct {
	Users   []models.User   `json:"users"`
	Books   []models.Book   `json:"books"`
	Authors []models.Author `json:"authors"`
}

// JSONStore keeps all collections in a single JSON file.
// Every call re-reads the file, so edits made out-of-band (e.g. seeding
// authors) are picked up without a restart.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Users() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (s *JSONStore) Usernames() ([]string, error) {
	users, err := s.Users()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names, nil
}

func (s *JSONStore) AddUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	doc.Users = append(doc.Users, u)
	return s.saveLocked(doc)
}

func (s *JSONStore) Books() ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return doc.Books, nil
}

func (s *JSONStore) FindBook(id string) (models.Book, error) {
	books, err := s.Books()
	if err != nil {
		return models.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Book{}, ErrNotFound
}

func (s *JSONStore) AddBook(b models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	doc.Books = append(doc.Books, b)
	return s.saveLocked(doc)
}

func (s *JSONStore) Authors() ([]models.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return doc.Authors, nil
}

func (s *JSONStore) FindAuthor(id string) (models.Author, error) {
	authors, err := s.Authors()
	if err != nil {
		return models.Author{}, err
	}
	for _, a := range authors {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Author{}, ErrNotFound
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) loadLocked() (document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("read store: %w", err)
	}
	if len(b) == 0 {
		return document{}, nil
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("decode store: %w", err)
	}
	return doc, nil
}

func (s *JSONStore) saveLocked(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	// keep empty collections as [] rather than null
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	if doc.Books == nil {
		doc.Books = []models.Book{}
	}
	if doc.Authors == nil {
		doc.Authors = []models.Author{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	b = append(b, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
