package models

import (
	"time"
)

type LoginTracking struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`
	Device    string    `gorm:"type:varchar(255)" json:"device"`
	Timestamp time.Time `json:"timestamp"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
