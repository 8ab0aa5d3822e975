package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sharath018/event-management-backend/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, userID uint) (*User, error)
	FindRoleByName(ctx context.Context, name string) (*UserRole, error)
	UpdatePassword(ctx context.Context, userID uint, hash string) error
	TouchLastLogin(ctx context.Context, userID uint, at time.Time) error

	SeedRoles(ctx context.Context) error
	SeedAdmin(ctx context.Context, email, password string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return policy.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: username or email already registered", policy.ErrConflict)
	default:
		return err
	}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return mapErr(r.db.WithContext(ctx).Create(user).Error)
}

// FindByLogin matches either the username or the email, case-insensitively.
func (r *repository) FindByLogin(ctx context.Context, login string) (*User, error) {
	var u User
	l := strings.ToLower(strings.TrimSpace(login))
	err := r.db.WithContext(ctx).Preload("Role").
		Where("LOWER(username) = ? OR LOWER(email) = ?", l, l).
		First(&u).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Preload("Role").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, userID uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").First(&u, userID).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *repository) FindRoleByName(ctx context.Context, name string) (*UserRole, error) {
	var role UserRole
	if err := r.db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, mapErr(err)
	}
	return &role, nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (r *repository) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

// ===========================
// 🌱 Seeding
// ===========================

var defaultRoles = []UserRole{
	{RoleName: RoleUser, Description: "Organizes events, RSVPs and reviews"},
	{RoleName: RoleAdmin, Description: "Can view and delete any event, RSVP or review"},
}

func (r *repository) SeedRoles(ctx context.Context) error {
	for _, role := range defaultRoles {
		role := role
		err := r.db.WithContext(ctx).
			Where(UserRole{RoleName: role.RoleName}).
			Attrs(UserRole{Description: role.Description}).
			FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role.RoleName, err)
		}
	}
	return nil
}

// SeedAdmin creates the administrator account once. Existing accounts are left untouched.
func (r *repository) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		log.Println("ℹ️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	if _, err := r.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, policy.ErrNotFound) {
		return err
	}

	role, err := r.FindRoleByName(ctx, RoleAdmin)
	if err != nil {
		return fmt.Errorf("admin role missing: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	admin := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       StatusActive,
	}
	if err := r.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("✅ Seeded admin user %s", email)
	return nil
}
