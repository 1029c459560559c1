package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type BookModel struct {
	ID        string    `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	Author    string    `gorm:"not null"`
	Year      *int      `gorm:""`
	CreatedAt time.Time `gorm:"not null;index"`
}
