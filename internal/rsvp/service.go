package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/export"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/utils"
)

// UserFinder resolves invitees and actor names.
type UserFinder interface {
	FindByLogin(ctx context.Context, login string) (*auth.User, error)
	FindByID(ctx context.Context, userID uint) (*auth.User, error)
}

type Service struct {
	Repo      *Repository
	Events    *event.Repository
	Policy    *policy.Policy
	Users     UserFinder
	Publisher notification.Publisher
	Mailer    utils.Mailer
	Exporter  export.AttendeeExporter
	AuditSvc  auditlog.Service
}

func NewService(
	r *Repository,
	events *event.Repository,
	p *policy.Policy,
	users UserFinder,
	pub notification.Publisher,
	mailer utils.Mailer,
	auditSvc auditlog.Service,
) *Service {
	return &Service{
		Repo:      r,
		Events:    events,
		Policy:    p,
		Users:     users,
		Publisher: pub,
		Mailer:    mailer,
		Exporter:  export.NewAttendeeExporter(),
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

func (s *Service) notify(ctx context.Context, typ string, actorID, recipientID uint, ev *event.Event, detail string) {
	notification.Notify(ctx, s.Publisher, notification.Activity{
		Type:        typ,
		ActorID:     actorID,
		ActorName:   s.actorName(ctx, actorID),
		RecipientID: recipientID,
		EventID:     ev.ID,
		EventTitle:  ev.Title,
		Detail:      detail,
	})
}

// ===========================
// 📄 List RSVPs of an event
func (s *Service) ListForEvent(ctx context.Context, id policy.Identity, eventID uint) ([]RSVP, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionRead); err != nil {
		return nil, err
	}
	return s.Repo.ListByEvent(ctx, ev.ID)
}

// ===========================
// 📄 The caller's own RSVPs
func (s *Service) ListMine(ctx context.Context, id policy.Identity) ([]RSVP, error) {
	if id.IsAnonymous() {
		return nil, policy.ErrUnauthenticated
	}
	return s.Repo.ListByUser(ctx, id.UserID)
}

// ===========================
// 🎯 Create RSVP
func (s *Service) Create(ctx context.Context, id policy.Identity, eventID uint, req StatusRequest, ip string) (*RSVP, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"status": req.Status}
	if err := s.Policy.Authorize(ctx, id, policy.RSVPResource(ev.Facts(), id.UserID), policy.ActionCreate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPCreated, details, ip, err)
		return nil, err
	}

	status, err := policy.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	rs := &RSVP{EventID: ev.ID, UserID: id.UserID, Status: status}
	err = s.Repo.Create(ctx, rs)
	if errors.Is(err, policy.ErrConflict) {
		err = fmt.Errorf("%w: you have already RSVPed to this event", policy.ErrConflict)
	}
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPCreated, details, ip, err)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notification.TypeRSVPCreated, id.UserID, ev.OrganizerID, ev, status.Label())
	return s.Repo.GetByID(ctx, ev.ID, rs.ID)
}

// load fetches the event and one of its RSVPs.
func (s *Service) load(ctx context.Context, eventID, rsvpID uint) (*event.Event, *RSVP, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	rs, err := s.Repo.GetByID(ctx, ev.ID, rsvpID)
	if err != nil {
		return nil, nil, err
	}
	return ev, rs, nil
}

// ===========================
// 🛠 Update RSVP status (owner only)
func (s *Service) Update(ctx context.Context, id policy.Identity, eventID, rsvpID uint, req StatusRequest, ip string) (*RSVP, error) {
	ev, rs, err := s.load(ctx, eventID, rsvpID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"rsvp_id": rs.ID, "status": req.Status}
	if err := s.Policy.Authorize(ctx, id, policy.RSVPResource(ev.Facts(), rs.UserID), policy.ActionUpdate); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPUpdated, details, ip, err)
		return nil, err
	}

	status, err := policy.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	err = s.Repo.UpdateStatus(ctx, rs.ID, status)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPUpdated, details, ip, err)
	if err != nil {
		return nil, err
	}

	if status != rs.Status {
		s.notify(ctx, notification.TypeRSVPUpdated, id.UserID, ev.OrganizerID, ev, status.Label())
	}
	return s.Repo.GetByID(ctx, ev.ID, rs.ID)
}

// ===========================
// ❌ Delete RSVP (owner or admin)
func (s *Service) Delete(ctx context.Context, id policy.Identity, eventID, rsvpID uint, ip string) error {
	ev, rs, err := s.load(ctx, eventID, rsvpID)
	if err != nil {
		return err
	}

	details := map[string]interface{}{"rsvp_id": rs.ID, "user_id": rs.UserID}
	if err := s.Policy.Authorize(ctx, id, policy.RSVPResource(ev.Facts(), rs.UserID), policy.ActionDelete); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPDeleted, details, ip, err)
		return err
	}

	err = s.Repo.Delete(ctx, rs.ID)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionRSVPDeleted, details, ip, err)
	if err != nil {
		return err
	}

	if id.Is(rs.UserID) {
		s.notify(ctx, notification.TypeRSVPDeleted, rs.UserID, ev.OrganizerID, ev, "")
		return nil
	}
	// removed by an administrator: tell the organizer and the attendee who did it
	s.notify(ctx, notification.TypeRSVPRemoved, id.UserID, ev.OrganizerID, ev, rs.UserName)
	s.notify(ctx, notification.TypeRSVPRemoved, id.UserID, rs.UserID, ev, rs.UserName)
	return nil
}

// ===========================
// ✉️ Invite a user (organizer only). The invitation is an RSVP with status maybe.
func (s *Service) Invite(ctx context.Context, id policy.Identity, eventID uint, req InviteRequest, ip string) (*RSVP, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"invitee": req.User}
	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionInvite); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionUserInvited, details, ip, err)
		return nil, err
	}

	invitee, err := s.Users.FindByLogin(ctx, req.User)
	if errors.Is(err, policy.ErrNotFound) {
		return nil, policy.Invalid("user", "No user with that username or email.")
	}
	if err != nil {
		return nil, err
	}
	if invitee.ID == ev.OrganizerID {
		return nil, policy.Invalid("user", "The organizer cannot be invited to their own event.")
	}

	rs := &RSVP{EventID: ev.ID, UserID: invitee.ID, Status: policy.StatusMaybe}
	err = s.Repo.Create(ctx, rs)
	if errors.Is(err, policy.ErrConflict) {
		err = fmt.Errorf("%w: %s already has an RSVP for this event", policy.ErrConflict, invitee.Username)
	}
	details["invitee_id"] = invitee.ID
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionUserInvited, details, ip, err)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notification.TypeInvited, id.UserID, invitee.ID, ev, "")
	if s.Mailer != nil {
		if err := s.Mailer.SendInvitation(invitee.Email, ev.Title, ev.StartTime); err != nil {
			log.Printf("⚠️ invitation email to %s failed: %v", invitee.Email, err)
		}
	}
	return s.Repo.GetByID(ctx, ev.ID, rs.ID)
}

// ExportFile is a rendered attendee list.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ===========================
// 📤 Export attendees (organizer only)
func (s *Service) Export(ctx context.Context, id policy.Identity, eventID uint, format string, ip string) (*ExportFile, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"format": format}
	if err := s.Policy.Authorize(ctx, id, policy.EventResource(ev.Facts()), policy.ActionExport); err != nil {
		auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionAttendeesExport, details, ip, err)
		return nil, err
	}

	format, err = export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	rows, err := s.Repo.Attendees(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	data, filename, contentType, err := s.Exporter.Export(ev.Title, format, rows)
	details["rows"] = len(rows)
	auditlog.Record(ctx, s.AuditSvc, id.UserID, ev.ID, auditlog.ActionAttendeesExport, details, ip, err)
	if err != nil {
		return nil, err
	}
	return &ExportFile{Data: data, Filename: filename, ContentType: contentType}, nil
}
