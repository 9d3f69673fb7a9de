package models

import (
	"gorm.io/datatypes"
)

// ReservationStatus values are stored as-is; no transition rules apply
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

var ReservationStatuses = []string{
	ReservationPending,
	ReservationConfirmed,
	ReservationCancelled,
	ReservationCompleted,
}

type Reservation struct {
	Base
	Reference string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	PlaceID   uint           `gorm:"not null;index" json:"place_id"`
	Date      datatypes.Date `gorm:"not null;index" json:"date"`
	StartTime datatypes.Time `gorm:"not null" json:"start_time"`
	EndTime   datatypes.Time `gorm:"not null" json:"end_time"`
	Guests    int            `gorm:"not null;default:1" json:"guests"`
	Status    string         `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"`
	Notes     string         `gorm:"type:text" json:"notes"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Place *Place `gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE" json:"place,omitempty"`
}
