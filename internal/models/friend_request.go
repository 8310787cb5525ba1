package models

import "time"

// RequestStatus defines the state of a connection request between two users.
type RequestStatus string

const (
	// StatusPending means a request has been sent but not yet answered.
	StatusPending RequestStatus = "pending"

	// StatusAccepted means the request was accepted. The accepted record
	// IS the friendship; there is no separate friendship entity.
	StatusAccepted RequestStatus = "accepted"

	// StatusDeclined means the recipient declined. The record is kept as
	// inert history and never cleaned up.
	StatusDeclined RequestStatus = "declined"
)

// FriendRequest is the sole persisted relationship record between two
// users. The primary key is a composite of (FromUserID, ToUserID), so
// the reverse pair is a distinct record. The state machine in
// internal/social guarantees at most one of the two orderings is
// pending or accepted at any time.
type FriendRequest struct {
	FromUserID uint          `gorm:"primaryKey"`
	ToUserID   uint          `gorm:"primaryKey"`
	Status     RequestStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
