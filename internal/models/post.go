package models

import "time"

// Post represents a published post. UserID is the author and is immutable
// after creation, as is CreatedAt. Title and Body are stored as plain text;
// markup is stripped before they ever reach the store.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Body   string `gorm:"type:text;not null" json:"body"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	// Author is the joined public identity projection (computed)
	Author Profile `gorm:"-" json:"author"`
	// IsOwner reports whether the requesting visitor authored this post (computed)
	IsOwner bool `gorm:"-" json:"is_owner"`
	// Score is the full-text relevance rank for search results (computed)
	Score     float64   `gorm:"->;-:migration" json:"-"`
	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"-"`
}
