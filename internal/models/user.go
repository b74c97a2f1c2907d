// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered author. Identity fields are immutable after
// signup and there is no delete path for users.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Gender    string    `gorm:"not null" json:"gender"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
