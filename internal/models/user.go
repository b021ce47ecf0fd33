// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. Deleting a user hard-deletes the
// reviews, votes, and replies they own via the foreign-key cascades declared
// on those models.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
