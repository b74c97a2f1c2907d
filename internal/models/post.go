package models

import "time"

// Post represents a blog entry. Title is globally unique. Author is the
// denormalized display name captured from the creation form; UserID is the
// owning user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedOn time.Time `gorm:"column:created_on;autoCreateTime" json:"created_on"`
	Author    string    `gorm:"not null" json:"author"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName keeps the original singular table name.
func (Post) TableName() string {
	return "post"
}
