package notification

import (
	"time"
)

// Activity types published by the event, RSVP and review services.
const (
	TypeRSVPCreated   = "rsvp.created"
	TypeRSVPUpdated   = "rsvp.updated"
	TypeRSVPDeleted   = "rsvp.deleted"
	TypeRSVPRemoved   = "rsvp.removed"
	TypeReviewCreated = "review.created"
	TypeInvited       = "event.invited"
)

const CategoryEvent = "event"

// Activity is the message carried on the activity topic. RecipientID is the
// user who should hear about it.
type Activity struct {
	Type        string    `json:"type"`
	ActorID     uint      `json:"actor_id"`
	ActorName   string    `json:"actor_name,omitempty"`
	RecipientID uint      `json:"recipient_id"`
	EventID     uint      `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	Detail      string    `json:"detail,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	EventID   *uint     `gorm:"index" json:"event_id,omitempty"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  string    `gorm:"size:30;not null" json:"category"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// DeviceToken is an FCM registration token for one of a user's devices.
type DeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_token" json:"user_id"`
	DeviceToken string    `gorm:"size:255;not null;uniqueIndex:idx_user_token" json:"device_token"`
	DeviceType  string    `gorm:"size:20" json:"device_type"`
	DeviceName  string    `gorm:"size:100" json:"device_name"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DeviceToken) TableName() string {
	return "fcm_device_tokens"
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token" binding:"required,max=255"`
	DeviceType  string `json:"device_type" binding:"omitempty,oneof=android ios web" example:"android"`
	DeviceName  string `json:"device_name" binding:"max=100"`
}

type UnregisterDeviceRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
}
