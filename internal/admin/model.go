package admin

import "time"

// UserResponse is the admin view of an account.
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	EventsOrganized int64 `json:"events_organized"`
	RSVPCount       int64 `json:"rsvp_count"`
}

type UserFilter struct {
	Search string
	Role   string
	Status string
	Page   int
	Limit  int
}

type UserPage struct {
	Data       []UserResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive" example:"inactive"`
}
