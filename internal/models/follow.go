package models

import "time"

// Follow is a directed edge from the follower (AuthorID) to the followed
// account. The pair is unique at the store level; a self-referencing edge
// is never created.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followed_id"`
	AuthorID   uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`

	Followed User `gorm:"foreignKey:FollowedID" json:"-"`
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
