package models

import (
	"time"
)

// Follow is a directed edge in the follow graph. The composite unique index
// over (follower_id, followed_id) makes the edge the source of truth: a
// duplicate insert under a race fails at the database and is treated as a
// no-op by the repository.
type Follow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followed_id"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
