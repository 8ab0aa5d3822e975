package auth

import (
	"time"

	"github.com/sharath018/event-management-backend/internal/policy"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type UserRole struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoleName    string    `gorm:"size:50;uniqueIndex;not null" json:"role_name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	RoleID       uint       `gorm:"not null" json:"role_id"`
	Role         UserRole   `gorm:"foreignKey:RoleID" json:"role"`
	Status       string     `gorm:"size:20;not null" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role.RoleName == RoleAdmin
}

// Identity is the caller identity the access policy sees for u.
func (u *User) Identity() policy.Identity {
	if u.IsAdmin() {
		return policy.Administrator(u.ID)
	}
	return policy.User(u.ID)
}
