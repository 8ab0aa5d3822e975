package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/policy"
)

// UserFinder resolves the display name of an acting user.
type UserFinder interface {
	FindByID(ctx context.Context, userID uint) (*auth.User, error)
}

type Service struct {
	Repo      *Repository
	Events    *event.Repository
	Policy    *policy.Policy
	Publisher notification.Publisher
	Users     UserFinder
	AuditSvc  auditlog.Service
}

func NewService(r *Repository, events *event.Repository, p *policy.Policy, users UserFinder, pub notification.Publisher, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:      r,
		Events:    events,
		Policy:    p,
		Publisher: pub,
		Users:     users,
		AuditSvc:  auditSvc,
	}
}

func (s *Service) actorName(ctx context.Context, userID uint) string {
	if s.Users == nil {
		return ""
	}
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Username
}

// ===========================
// 📄 List reviews of an event
func (s *Service) List(ctx context.Context, id policy.Identity, eventID uint) (*ReviewList, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionRead); err != nil {
		return nil, err
	}

	items, err := s.Repo.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	summary, err := s.Repo.Summarize(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	return &ReviewList{Summary: summary, Results: items}, nil
}

// ===========================
// 🎯 Create review
func (s *Service) Create(ctx context.Context, id policy.Identity, eventID uint, req CreateReviewRequest, ip string) (*Review, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{}
	if req.Rating != nil {
		details["rating"] = *req.Rating
	}
	if err := s.Policy.Authorize(ctx, id, policy.ReviewResource(ev.Facts(), id.UserID), policy.ActionCreate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewCreated, details, ip, err)
		return nil, err
	}

	if req.Rating == nil {
		return nil, policy.Invalid("rating", "This field is required.")
	}
	rating, err := policy.ParseRating(*req.Rating)
	if err != nil {
		return nil, err
	}

	rv := &Review{EventID: ev.ID, UserID: id.UserID, Rating: rating, Comment: req.Comment}
	err = s.Repo.Create(ctx, rv)
	if errors.Is(err, policy.ErrConflict) {
		err = fmt.Errorf("%w: you have already reviewed this event", policy.ErrConflict)
	}
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewCreated, details, ip, err)
	if err != nil {
		return nil, err
	}

	notification.Notify(ctx, s.Publisher, notification.Activity{
		Type:        notification.TypeReviewCreated,
		ActorID:     id.UserID,
		ActorName:   s.actorName(ctx, id.UserID),
		RecipientID: ev.OrganizerID,
		EventID:     ev.ID,
		EventTitle:  ev.Title,
		Detail:      strconv.Itoa(rating),
	})
	return s.Repo.GetByID(ctx, ev.ID, rv.ID)
}

func (s *Service) load(ctx context.Context, eventID, reviewID uint) (*event.Event, *Review, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	rv, err := s.Repo.GetByID(ctx, ev.ID, reviewID)
	if err != nil {
		return nil, nil, err
	}
	return ev, rv, nil
}

// ===========================
// 🛠 Update review (owner only)
func (s *Service) Update(ctx context.Context, id policy.Identity, eventID, reviewID uint, req UpdateReviewRequest, ip string) (*Review, error) {
	ev, rv, err := s.load(ctx, eventID, reviewID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"review_id": rv.ID}
	if err := s.Policy.Authorize(ctx, id, policy.ReviewResource(ev.Facts(), rv.UserID), policy.ActionUpdate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewUpdated, details, ip, err)
		return nil, err
	}

	if req.Rating != nil {
		rating, err := policy.ParseRating(*req.Rating)
		if err != nil {
			return nil, err
		}
		rv.Rating = rating
		details["rating"] = rating
	}
	if req.Comment != nil {
		rv.Comment = *req.Comment
	}

	err = s.Repo.Update(ctx, rv)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewUpdated, details, ip, err)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, ev.ID, rv.ID)
}

// ===========================
// ❌ Delete review (owner or admin)
func (s *Service) Delete(ctx context.Context, id policy.Identity, eventID, reviewID uint, ip string) error {
	ev, rv, err := s.load(ctx, eventID, reviewID)
	if err != nil {
		return err
	}

	details := map[string]interface{}{"review_id": rv.ID, "user_id": rv.UserID}
	if err := s.Policy.Authorize(ctx, id, policy.ReviewResource(ev.Facts(), rv.UserID), policy.ActionDelete); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewDeleted, details, ip, err)
		return err
	}

	err = s.Repo.Delete(ctx, rv.ID)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionReviewDeleted, details, ip, err)
	return err
}
