package admin

import (
	"context"
	"strings"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/policy"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN user_roles ON users.role_id = user_roles.id")
}

const userColumns = `
	users.id,
	users.username,
	users.email,
	user_roles.role_name AS role,
	users.status,
	users.last_login_at,
	users.created_at,
	(SELECT COUNT(*) FROM events WHERE events.organizer_id = users.id) AS events_organized,
	(SELECT COUNT(*) FROM rsvps WHERE rsvps.user_id = users.id) AS rsvp_count`

// ===========================
// 👥 List users with search, role and status filters
func (r *Repository) GetUsers(ctx context.Context, f UserFilter) ([]UserResponse, int64, error) {
	q := r.base(ctx)
	if f.Role != "" {
		q = q.Where("LOWER(user_roles.role_name) = LOWER(?)", f.Role)
	}
	if f.Status != "" {
		q = q.Where("LOWER(users.status) = LOWER(?)", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []UserResponse{}
	err := q.Select(userColumns).
		Order("users.id ASC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Scan(&users).Error
	return users, total, err
}

func (r *Repository) GetUser(ctx context.Context, userID uint) (*UserResponse, error) {
	var u UserResponse
	res := r.base(ctx).Select(userColumns).Where("users.id = ?", userID).Limit(1).Scan(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, policy.ErrNotFound
	}
	return &u, nil
}

func (r *Repository) UpdateUserStatus(ctx context.Context, userID uint, status string) error {
	res := r.db.WithContext(ctx).Model(&auth.User{}).Where("id = ?", userID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}
