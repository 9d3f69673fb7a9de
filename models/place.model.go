package models

import (
	"gorm.io/datatypes"
)

type Place struct {
	Base
	Name         string         `gorm:"type:varchar(150);not null;index" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Location     string         `gorm:"type:varchar(255)" json:"location"`
	Latitude     *float64       `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude    *float64       `gorm:"type:decimal(11,8)" json:"longitude"`
	Category     string         `gorm:"type:varchar(50);index" json:"category"`
	OpeningHours datatypes.JSON `json:"opening_hours,omitempty"`
}

// PlaceDetails is a place with its aggregated review figures
type PlaceDetails struct {
	Place
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// PlaceDistance is a place annotated with its distance from a query point
type PlaceDistance struct {
	Place
	DistanceKm float64 `json:"distance_km"`
}
