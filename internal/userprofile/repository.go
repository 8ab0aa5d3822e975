package userprofile

import (
	"context"
	"errors"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/policy"
	"gorm.io/gorm"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uint) (*UserProfile, error)
	Save(ctx context.Context, profile *UserProfile) error
	UsernameOf(ctx context.Context, userID uint) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) (*UserProfile, error) {
	var p UserProfile
	err := r.db.WithContext(ctx).
		Model(&UserProfile{}).
		Select("user_profiles.*, users.username AS username").
		Joins("JOIN users ON users.id = user_profiles.user_id").
		Where("user_profiles.user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, policy.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save inserts or updates the single profile of profile.UserID.
func (r *repository) Save(ctx context.Context, profile *UserProfile) error {
	err := r.db.WithContext(ctx).Omit("User").Save(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return policy.ErrConflict
	}
	return err
}

func (r *repository) UsernameOf(ctx context.Context, userID uint) (string, error) {
	var u auth.User
	err := r.db.WithContext(ctx).Select("id", "username").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", policy.ErrNotFound
	}
	return u.Username, err
}
