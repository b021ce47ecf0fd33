package models

import (
	"time"
)

// ReviewReply is a supervisor's answer to a review. At most one reply exists
// per review, enforced at write time rather than by schema uniqueness alone.
// The author must be the supervisor assigned to the review's business.
type ReviewReply struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReviewID     uint      `gorm:"not null;index" json:"review_id"`
	Review       Review    `gorm:"foreignKey:ReviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SupervisorID uint      `gorm:"not null" json:"supervisor_id"`
	Supervisor   User      `gorm:"foreignKey:SupervisorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"supervisor,omitempty"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
