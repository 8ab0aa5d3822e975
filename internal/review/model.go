package review

import (
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
)

// Review is a user's rating of an event. At most one exists per (event, user).
type Review struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	EventID uint         `gorm:"not null;uniqueIndex:idx_review_event_user" json:"event"`
	Event   *event.Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  uint         `gorm:"not null;uniqueIndex:idx_review_event_user;index" json:"user"`
	User    *auth.User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Rating  int    `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	UserName   string `gorm:"->;-:migration" json:"user_name"`
	EventTitle string `gorm:"->;-:migration" json:"event_title"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

type CreateReviewRequest struct {
	Rating  *int   `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Great talks"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Summary aggregates the ratings of an event.
type Summary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

type ReviewList struct {
	Summary Summary  `json:"summary"`
	Results []Review `json:"results"`
}
