package models

import (
	"time"
)

// Rating bounds enforced at write time in addition to the check constraint.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rated writeup of a business. Only the owner may edit it;
// the owner or an admin may delete it. Any write that touches Rating triggers
// a recompute of the business average in the same transaction.
type Review struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Rating     int      `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title      string   `gorm:"not null" json:"title"`
	Body       string   `gorm:"type:text;not null" json:"body"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	BusinessID uint     `gorm:"not null;index" json:"business_id"`
	Business   Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	// VotesCount is not persisted; computed at query time
	VotesCount int       `gorm:"->" json:"votes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
