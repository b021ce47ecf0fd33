package models

import (
	"time"
)

// ReviewVote marks a review as helpful. Row presence IS the vote: there is no
// direction or counter to desynchronize. The combination of UserID and
// ReviewID must be unique; the index backstops concurrent duplicate up-votes.
type ReviewVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_user" json:"review_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user" json:"user_id"`
	Review    Review    `gorm:"foreignKey:ReviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote directions as they appear on the wire.
const (
	VoteDown = 0
	VoteUp   = 1
)
