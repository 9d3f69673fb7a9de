package models

import (
	"time"
)

// Message is unidirectional; a conversation is every message between two user ids
type Message struct {
	Base
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	SessionID   *uint     `gorm:"index" json:"session_id,omitempty"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	SentAt      time.Time `gorm:"not null;index" json:"sent_at"`
	Read        bool      `gorm:"column:is_read;default:false;index" json:"read"`

	Sender    *User        `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient *User        `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	Session   *ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:SET NULL" json:"-"`
}

// ChatSession pairs two users; UserAID is always the smaller id
type ChatSession struct {
	Base
	UserAID uint `gorm:"not null;uniqueIndex:idx_chat_pair" json:"user_a_id"`
	UserBID uint `gorm:"not null;uniqueIndex:idx_chat_pair" json:"user_b_id"`

	UserA *User `gorm:"foreignKey:UserAID;constraint:OnDelete:CASCADE" json:"-"`
	UserB *User `gorm:"foreignKey:UserBID;constraint:OnDelete:CASCADE" json:"-"`
}

// Includes reports whether userID participates in the session
func (s *ChatSession) Includes(userID uint) bool {
	return s.UserAID == userID || s.UserBID == userID
}

// Other returns the participant that is not userID
func (s *ChatSession) Other(userID uint) uint {
	if s.UserAID == userID {
		return s.UserBID
	}
	return s.UserAID
}

// OrderedPair returns the two ids smallest first
func OrderedPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// ChatSessionView is a session seen from one participant
type ChatSessionView struct {
	ChatSession
	Participant PublicUser `json:"participant"`
}

// ViewFor requires UserA and UserB to be preloaded
func (s *ChatSession) ViewFor(userID uint) ChatSessionView {
	v := ChatSessionView{ChatSession: *s}
	other := s.UserB
	if s.UserBID == userID {
		other = s.UserA
	}
	if other != nil {
		v.Participant = other.Public()
	}
	return v
}
