package models

// User represents an application account.
// The password hash is stored under "password" to keep the on-disk
// document layout of existing catalogs.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Username     string `json:"username" gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `json:"password" gorm:"column:password;size:255;not null"`
}
