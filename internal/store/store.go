// Package store holds the catalog record store: users, books and authors.
//
// Two backends implement Store. JSONStore keeps everything in one JSON
// document on disk; GormStore keeps the same collections in SQLite.
package store

import (
	"errors"
	"fmt"

	"book-catalog/internal/config"
	"book-catalog/internal/database"
	"book-catalog/internal/models"
)

// ErrNotFound is returned by Find* lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Store is the record store used by handlers and the credential service.
// Collections are returned in insertion order.
type Store interface {
	Users() ([]models.User, error)
	Usernames() ([]string, error)
	AddUser(u models.User) error

	Books() ([]models.Book, error)
	FindBook(id string) (models.Book, error)
	AddBook(b models.Book) error

	Authors() ([]models.Author, error)
	FindAuthor(id string) (models.Author, error)

	Close() error
}

// Open builds the store selected by cfg.Store.Driver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "", "json":
		return NewJSONStore(cfg.Store.Path), nil
	case "sqlite":
		db, err := database.Init(cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
