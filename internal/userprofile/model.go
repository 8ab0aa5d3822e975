package userprofile

import (
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
)

// ============================
// 🔷 User Profile Model
type UserProfile struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   uint       `gorm:"not null;uniqueIndex" json:"user"`
	User     *auth.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Username string     `gorm:"->;-:migration" json:"username"`

	FullName       string `gorm:"size:255" json:"full_name"`
	Bio            string `gorm:"type:text" json:"bio"`
	Location       string `gorm:"size:255" json:"location"`
	ProfilePicture string `gorm:"size:500" json:"profile_picture"`

	ProfileCompletionPercentage int `gorm:"not null;default:0" json:"profile_completion_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// ============================
// 🟡 Profile Input (PUT replaces, PATCH merges)
type ProfileInput struct {
	FullName       *string `json:"full_name" binding:"omitempty,max=255"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location" binding:"omitempty,max=255"`
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,max=500,url"`
}
