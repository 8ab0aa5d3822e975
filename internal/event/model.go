package event

import (
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/policy"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	OrganizerID   uint       `gorm:"not null;index" json:"organizer"`
	Organizer     *auth.User `gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE" json:"-"`
	OrganizerName string     `gorm:"->;-:migration" json:"organizer_name"`

	Location  string    `gorm:"type:varchar(255);index" json:"location"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	IsPublic  bool      `gorm:"not null;index" json:"is_public"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	RSVPCount int64 `gorm:"->;-:migration" json:"rsvp_count"`
}

// Facts is the view of the event the access policy decides on.
func (e Event) Facts() policy.EventFacts {
	return policy.EventFacts{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		IsPublic:    e.IsPublic,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=255" example:"Go Meetup"`
	Description string    `json:"description" example:"Monthly meetup"`
	Location    string    `json:"location" binding:"max=255" example:"Berlin"`
	StartTime   time.Time `json:"start_time" example:"2025-12-10T10:00:00Z"`
	EndTime     time.Time `json:"end_time" example:"2025-12-10T12:00:00Z"`
	// IsPublic defaults to true when omitted.
	IsPublic *bool `json:"is_public,omitempty"`
}

// ============================
// 🟠 Update Event Request (PUT requires title, start_time and end_time)
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsPublic    *bool      `json:"is_public"`
}

// ============================
// 🔎 List query
type ListQuery struct {
	Search   string
	Location string
	IsPublic *bool
	Ordering string
	Limit    int
	Offset   int
}

type EventPage struct {
	Count   int64   `json:"count"`
	Results []Event `json:"results"`
}
