package rsvp

import (
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/policy"
)

// RSVP is a user's answer to an event. At most one exists per (event, user).
type RSVP struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	EventID uint         `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"event"`
	Event   *event.Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  uint         `gorm:"not null;uniqueIndex:idx_rsvp_event_user;index" json:"user"`
	User    *auth.User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Status policy.RSVPStatus `gorm:"type:varchar(20);not null" json:"status"`

	UserName   string `gorm:"->;-:migration" json:"user_name"`
	EventTitle string `gorm:"->;-:migration" json:"event_title"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// StatusRequest is the body of RSVP create and update. Status accepts the
// stored value or its label, e.g. "not_going" or "Not Going".
type StatusRequest struct {
	Status string `json:"status" binding:"required" example:"Going"`
}

// InviteRequest names the invitee by username or email.
type InviteRequest struct {
	User string `json:"user" binding:"required" example:"uma@example.com"`
}
