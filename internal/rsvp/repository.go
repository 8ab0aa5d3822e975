package rsvp

import (
	"context"
	"errors"
	"time"

	"github.com/sharath018/event-management-backend/internal/export"
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
		Model(&RSVP{}).
		Select("rsvps.*, users.username AS user_name, events.title AS event_title").
		Joins("JOIN users ON users.id = rsvps.user_id").
		Joins("JOIN events ON events.id = rsvps.event_id")
}

// RSVPStatus reports the user's answer for an event, if any.
func (r *Repository) RSVPStatus(ctx context.Context, eventID, userID uint) (policy.RSVPStatus, bool, error) {
	var rows []RSVP
	err := r.DB.WithContext(ctx).
		Select("status").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Status, true, nil
}

func (r *Repository) Create(ctx context.Context, rs *RSVP) error {
	return mapErr(r.DB.WithContext(ctx).Omit("Event", "User").Create(rs).Error)
}

// GetByID loads an RSVP that belongs to eventID.
func (r *Repository) GetByID(ctx context.Context, eventID, rsvpID uint) (*RSVP, error) {
	var rs RSVP
	err := r.base(ctx).
		Where("rsvps.id = ? AND rsvps.event_id = ?", rsvpID, eventID).
		Take(&rs).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &rs, nil
}

func (r *Repository) ListByEvent(ctx context.Context, eventID uint) ([]RSVP, error) {
	items := []RSVP{}
	err := r.base(ctx).
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.id ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]RSVP, error) {
	items := []RSVP{}
	err := r.base(ctx).
		Where("rsvps.user_id = ?", userID).
		Order("events.start_time ASC, rsvps.id ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) UpdateStatus(ctx context.Context, rsvpID uint, status policy.RSVPStatus) error {
	res := r.DB.WithContext(ctx).
		Model(&RSVP{ID: rsvpID}).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, rsvpID uint) error {
	res := r.DB.WithContext(ctx).Delete(&RSVP{}, rsvpID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// Attendees returns the export rows for an event, in RSVP order.
func (r *Repository) Attendees(ctx context.Context, eventID uint) ([]export.AttendeeRow, error) {
	var rows []struct {
		ID        uint
		UserID    uint
		Username  string
		Email     string
		Status    policy.RSVPStatus
		UpdatedAt time.Time
	}
	err := r.DB.WithContext(ctx).
		Table("rsvps").
		Select("rsvps.id, rsvps.user_id, users.username, users.email, rsvps.status, rsvps.updated_at").
		Joins("JOIN users ON users.id = rsvps.user_id").
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]export.AttendeeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, export.AttendeeRow{
			RSVPID:      row.ID,
			UserID:      row.UserID,
			Username:    row.Username,
			Email:       row.Email,
			Status:      row.Status,
			RespondedAt: row.UpdatedAt,
		})
	}
	return out, nil
}
