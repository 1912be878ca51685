package models

// Book is a catalog entry. AuthorID references Author.ID but is not
// enforced; a dangling reference renders as an empty author.
type Book struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Title    string `json:"title" gorm:"size:255;not null"`
	AuthorID string `json:"author_id" gorm:"column:author_id;size:36;index"`
}

// Author is read-only from the application's point of view.
type Author struct {
	ID   string `json:"id" gorm:"primaryKey;size:36"`
	Name string `json:"name" gorm:"size:255"`
}
