package review

import (
	"context"
	"errors"

	"github.com/sharath018/event-management-backend/internal/policy"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return policy.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return policy.ErrConflict
	default:
		return err
	}
}

func (r *Repository) base(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&Review{}).
		Select("reviews.*, users.username AS user_name, events.title AS event_title").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN events ON events.id = reviews.event_id")
}

// HasReview reports whether userID already reviewed eventID.
func (r *Repository) HasReview(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&Review{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, rv *Review) error {
	return mapErr(r.DB.WithContext(ctx).Omit("Event", "User").Create(rv).Error)
}

func (r *Repository) GetByID(ctx context.Context, eventID, reviewID uint) (*Review, error) {
	var rv Review
	err := r.base(ctx).
		Where("reviews.id = ? AND reviews.event_id = ?", reviewID, eventID).
		Take(&rv).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &rv, nil
}

func (r *Repository) ListByEvent(ctx context.Context, eventID uint) ([]Review, error) {
	items := []Review{}
	err := r.base(ctx).
		Where("reviews.event_id = ?", eventID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Find(&items).Error
	return items, err
}

func (r *Repository) Summarize(ctx context.Context, eventID uint) (Summary, error) {
	var row struct {
		Count   int64
		Average *float64
	}
	err := r.DB.WithContext(ctx).
		Model(&Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("event_id = ?", eventID).
		Scan(&row).Error
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Count: row.Count}
	if row.Average != nil {
		s.Average = *row.Average
	}
	return s, nil
}

func (r *Repository) Update(ctx context.Context, rv *Review) error {
	res := r.DB.WithContext(ctx).
		Model(&Review{ID: rv.ID}).
		Select("rating", "comment", "updated_at").
		Updates(rv)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, reviewID uint) error {
	res := r.DB.WithContext(ctx).Delete(&Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}
