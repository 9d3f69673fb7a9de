package models

import (
	"time"
)

type Event struct {
	Base
	Title       string    `gorm:"type:varchar(150);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PlaceID     uint      `gorm:"not null;index" json:"place_id"`
	StartAt     time.Time `gorm:"not null;index" json:"start_at"`
	EndAt       time.Time `gorm:"not null" json:"end_at"`
	Price       float64   `gorm:"type:decimal(10,2);default:0" json:"price"`

	Place *Place `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"place,omitempty"`
}
