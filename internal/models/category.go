package models

// Category groups businesses. Deleting a category cascades to its businesses;
// the cascade is a deliberate product decision, not accidental loss.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
