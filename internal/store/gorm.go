package store

import (
	"errors"
	"fmt"

	"book-catalog/internal/database"
	"book-catalog/internal/models"

	"gorm.io/gorm"
)

// GormStore is the SQLite backend. Insertion order is kept through the
// implicit rowid.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Users() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("rowid ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

func (s *GormStore) Usernames() ([]string, error) {
	var names []string
	if err := s.DB.Model(&models.User{}).Order("rowid ASC").Pluck("username", &names).Error; err != nil {
		return nil, fmt.Errorf("query usernames: %w", err)
	}
	return names, nil
}

func (s *GormStore) AddUser(u models.User) error {
	if err := s.DB.Create(&u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) Books() ([]models.Book, error) {
	var books []models.Book
	if err := s.DB.Order("rowid ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return books, nil
}

func (s *GormStore) FindBook(id string) (models.Book, error) {
	var b models.Book
	if err := s.DB.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Book{}, ErrNotFound
		}
		return models.Book{}, fmt.Errorf("query book: %w", err)
	}
	return b, nil
}

func (s *GormStore) AddBook(b models.Book) error {
	if err := s.DB.Create(&b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (s *GormStore) Authors() ([]models.Author, error) {
	var authors []models.Author
	if err := s.DB.Order("rowid ASC").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	return authors, nil
}

func (s *GormStore) FindAuthor(id string) (models.Author, error) {
	var a models.Author
	if err := s.DB.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Author{}, ErrNotFound
		}
		return models.Author{}, fmt.Errorf("query author: %w", err)
	}
	return a, nil
}

func (s *GormStore) Close() error {
	return database.Close(s.DB)
}
