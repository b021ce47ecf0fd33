package models

import (
	"time"
)

// Business is a rated venue. AverageRating is derived from its reviews and is
// recomputed inside the same transaction as any rating-affecting write; it is
// never accepted from a client.
type Business struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"unique;not null" json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Logo          string    `json:"logo"`
	Phone         string    `json:"phone,omitempty"`
	Website       string    `json:"website,omitempty"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	CategoryID    uint      `gorm:"not null" json:"category_id"`
	Category      Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"category,omitempty"`
	SupervisorID  *uint     `gorm:"index" json:"supervisor_id,omitempty"`
	Supervisor    *User     `gorm:"foreignKey:SupervisorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"supervisor,omitempty"`
	// ReviewsCount is not persisted; computed at query time
	ReviewsCount int       `gorm:"->" json:"reviews_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
