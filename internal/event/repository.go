package event

import (
	"context"
	"errors"
	"strings"

	"github.com/sharath018/event-management-backend/internal/policy"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var orderColumns = map[string]string{
	"start_time": "events.start_time",
	"created_at": "events.created_at",
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

// base selects events with organizer name and RSVP count filled in.
func (r *Repository) base(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&Event{}).
		Select("events.*, users.username AS organizer_name, " +
			"(SELECT COUNT(*) FROM rsvps WHERE rsvps.event_id = events.id) AS rsvp_count").
		Joins("LEFT JOIN users ON users.id = events.organizer_id")
}

// VisibleTo restricts a query to the events id may view.
func VisibleTo(id policy.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsAnonymous():
			return db.Where("events.is_public = ?", true)
		case id.Admin:
			return db
		default:
			return db.Where("(events.is_public = ? OR events.organizer_id = ? OR EXISTS "+
				"(SELECT 1 FROM rsvps WHERE rsvps.event_id = events.id AND rsvps.user_id = ?))",
				true, id.UserID, id.UserID)
		}
	}
}

func matching(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			db = db.Where("(LOWER(events.title) LIKE ? OR LOWER(events.location) LIKE ? OR LOWER(users.username) LIKE ?)",
				like, like, like)
		}
		if q.Location != "" {
			db = db.Where("events.location = ?", q.Location)
		}
		if q.IsPublic != nil {
			db = db.Where("events.is_public = ?", *q.IsPublic)
		}
		return db
	}
}

// ParseOrdering turns "start_time,-created_at" into an ORDER BY clause.
func ParseOrdering(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "events.id ASC", nil
	}
	var parts []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := orderColumns[field]
		if !ok {
			return "", policy.Invalid("ordering", "Ordering must be one of: start_time, created_at (prefix with - for descending).")
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "events.id ASC")
	return strings.Join(parts, ", "), nil
}

// ===========================
// 🎯 Create Event
func (r *Repository) Create(ctx context.Context, e *Event) error {
	return mapErr(r.DB.WithContext(ctx).Omit("Organizer").Create(e).Error)
}

// ===========================
// 🔍 Get Event By ID
func (r *Repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	if err := r.base(ctx).Where("events.id = ?", id).Take(&e).Error; err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

// ===========================
// 📄 List visible events with search, filters, ordering and pagination
func (r *Repository) List(ctx context.Context, id policy.Identity, q ListQuery) ([]Event, int64, error) {
	order, err := ParseOrdering(q.Ordering)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.DB.WithContext(ctx).
		Model(&Event{}).
		Joins("LEFT JOIN users ON users.id = events.organizer_id").
		Scopes(VisibleTo(id), matching(q)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	events := []Event{}
	err = r.base(ctx).
		Scopes(VisibleTo(id), matching(q)).
		Order(order).
		Limit(limit).
		Offset(q.Offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) Update(ctx context.Context, e *Event) error {
	res := r.DB.WithContext(ctx).
		Model(&Event{ID: e.ID}).
		Select("title", "description", "location", "start_time", "end_time", "is_public", "updated_at").
		Updates(e)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}

// ===========================
// ❌ Delete Event (RSVPs and reviews cascade)
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return policy.ErrNotFound
	}
	return nil
}
