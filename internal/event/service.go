package event

import (
	"context"
	"strings"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/policy"
)

// Service wraps business logic for events
type Service struct {
	Repo     *Repository
	Policy   *policy.Policy
	AuditSvc auditlog.Service
}

func NewService(r *Repository, p *policy.Policy, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		Policy:   p,
		AuditSvc: auditSvc,
	}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(ctx context.Context, id policy.Identity, req CreateEventRequest, ip string) (*Event, error) {
	details := map[string]interface{}{"title": req.Title}

	if err := s.Policy.Authorize(ctx, id, policy.EventResource(policy.EventFacts{}), policy.ActionCreate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, 0, auditlog.ActionEventCreated, details, ip, err)
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, policy.Invalid("title", "This field may not be blank.")
	}
	if err := policy.ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	ev := &Event{
		Title:       title,
		Description: req.Description,
		OrganizerID: id.UserID,
		Location:    strings.TrimSpace(req.Location),
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		IsPublic:    isPublic,
	}

	if err := s.Repo.Create(ctx, ev); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, 0, auditlog.ActionEventCreated, details, ip, err)
		return nil, err
	}

	details["is_public"] = ev.IsPublic
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionEventCreated, details, ip, nil)
	return s.Repo.GetByID(ctx, ev.ID)
}

// ===========================
// 🔍 Get Event (private events the caller cannot see are reported as not found)
func (s *Service) GetEvent(ctx context.Context, id policy.Identity, eventID uint) (*Event, error) {
	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionRead); err != nil {
		return nil, err
	}
	return ev, nil
}

// ===========================
// 📄 List Events
func (s *Service) ListEvents(ctx context.Context, id policy.Identity, q ListQuery) (*EventPage, error) {
	events, total, err := s.Repo.List(ctx, id, q)
	if err != nil {
		return nil, err
	}

	visible, err := policy.VisibleEvents(ctx, s.Policy.Visibility(), id, events)
	if err != nil {
		return nil, err
	}
	return &EventPage{Count: total, Results: visible}, nil
}

// ===========================
// 🛠 Update Event. A full update (PUT) needs title, start_time and end_time.
func (s *Service) UpdateEvent(ctx context.Context, id policy.Identity, eventID uint, req UpdateEventRequest, partial bool, ip string) (*Event, error) {
	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionUpdate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionEventUpdated, nil, ip, err)
		return nil, err
	}

	if !partial {
		switch {
		case req.Title == nil:
			return nil, policy.Invalid("title", "This field is required.")
		case req.StartTime == nil:
			return nil, policy.Invalid("start_time", "This field is required.")
		case req.EndTime == nil:
			return nil, policy.Invalid("end_time", "This field is required.")
		}
	}

	changed := []string{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, policy.Invalid("title", "This field may not be blank.")
		}
		ev.Title = title
		changed = append(changed, "title")
	}
	if req.Description != nil {
		ev.Description = *req.Description
		changed = append(changed, "description")
	}
	if req.Location != nil {
		ev.Location = strings.TrimSpace(*req.Location)
		changed = append(changed, "location")
	}
	if req.StartTime != nil {
		ev.StartTime = req.StartTime.UTC()
		changed = append(changed, "start_time")
	}
	if req.EndTime != nil {
		ev.EndTime = req.EndTime.UTC()
		changed = append(changed, "end_time")
	}
	if req.IsPublic != nil {
		ev.IsPublic = *req.IsPublic
		changed = append(changed, "is_public")
	}

	// merged values are validated, so PATCHing only end_time still checks the stored start_time
	if err := policy.ValidateTimeRange(ev.StartTime, ev.EndTime); err != nil {
		return nil, err
	}

	err = s.Repo.Update(ctx, ev)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionEventUpdated,
		map[string]interface{}{"fields": changed}, ip, err)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, ev.ID)
}

// ===========================
// ❌ Delete Event
func (s *Service) DeleteEvent(ctx context.Context, id policy.Identity, eventID uint, ip string) error {
	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionDelete); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionEventDeleted, nil, ip, err)
		return err
	}

	err = s.Repo.Delete(ctx, ev.ID)
	// event_id stays empty: the row it would point at is gone
	auditlog.Record(ctx, s.AuditSvc, id.UserID, 0, auditlog.ActionEventDeleted,
		map[string]interface{}{"event_id": ev.ID, "title": ev.Title}, ip, err)
	return err
}
