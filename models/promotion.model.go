package models

import (
	"time"
)

type Promotion struct {
	Base
	PlaceID         uint      `gorm:"not null;index" json:"place_id"`
	Title           string    `gorm:"type:varchar(150);not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	ValidFrom       time.Time `gorm:"not null;index" json:"valid_from"`
	ValidTo         time.Time `gorm:"not null;index" json:"valid_to"`

	Place *Place `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsActiveAt reports whether t falls inside the validity window
func (p *Promotion) IsActiveAt(t time.Time) bool {
	return !t.Before(p.ValidFrom) && !t.After(p.ValidTo)
}
