package notification

import (
	"context"
	"errors"
	"time"

	"github.com/sharath018/event-management-backend/internal/policy"
	"gorm.io/gorm"
)

type Repository interface {
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error

	SaveDeviceToken(ctx context.Context, token *DeviceToken) error
	ActiveDeviceTokens(ctx context.Context, userID uint) ([]string, error)
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
	DeactivateDeviceTokens(ctx context.Context, deviceTokens []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateInApp(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	items := []InAppNotification{}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit <= 0 {
		limit = 20
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	return items, err
}

// MarkInAppAsRead only touches the caller's own notifications.
func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	res := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// ------------------------------
// Device tokens
// ------------------------------

// SaveDeviceToken creates the token or reactivates an existing one.
func (r *repository) SaveDeviceToken(ctx context.Context, token *DeviceToken) error {
	var existing DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_token = ?", token.UserID, token.DeviceToken).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		token.IsActive = true
		token.LastUsedAt = time.Now()
		return r.db.WithContext(ctx).Create(token).Error
	}
	if err != nil {
		return err
	}

	existing.IsActive = true
	existing.LastUsedAt = time.Now()
	existing.DeviceType = token.DeviceType
	existing.DeviceName = token.DeviceName
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return err
	}
	*token = existing
	return nil
}

func (r *repository) ActiveDeviceTokens(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id").
		Pluck("device_token", &tokens).Error
	return tokens, err
}

func (r *repository) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	res := r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("user_id = ? AND device_token = ? AND is_active = ?", userID, deviceToken, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// DeactivateDeviceTokens switches off tokens FCM reported as unregistered.
func (r *repository) DeactivateDeviceTokens(ctx context.Context, deviceTokens []string) error {
	if len(deviceTokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("device_token IN ?", deviceTokens).
		Update("is_active", false).Error
}
