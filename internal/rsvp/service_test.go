package rsvp

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type noReviews struct{}

func (noReviews) HasReview(context.Context, uint, uint) (bool, error) { return false, nil }

type invitation struct {
	to, title string
}

type captureMailer struct {
	invites []invitation
}

func (m *captureMailer) SendResetLink(string, string) error { return nil }

func (m *captureMailer) SendInvitation(to, title string, _ time.Time) error {
	m.invites = append(m.invites, invitation{to, title})
	return nil
}

var (
	start = time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	db       *gorm.DB
	users    auth.Repository
	events   *event.Service
	svc      *Service
	notes    notification.Service
	audits   auditlog.Service
	mailer   *captureMailer
	adminRID uint
	userRID  uint
}

func newFixture(t *testing.T, opts policy.Options) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&auth.UserRole{}, &auth.User{}, &event.Event{}, &RSVP{},
		&notification.InAppNotification{}, &auditlog.AuditLog{})

	users := auth.NewRepository(db)
	ctx := context.Background()
	require.NoError(t, users.SeedRoles(ctx))
	adminRole, err := users.FindRoleByName(ctx, auth.RoleAdmin)
	require.NoError(t, err)
	userRole, err := users.FindRoleByName(ctx, auth.RoleUser)
	require.NoError(t, err)

	repo := NewRepository(db)
	eventRepo := event.NewRepository(db)
	p := policy.New(repo, noReviews{}, opts)
	audits := auditlog.NewService(auditlog.NewRepository(db))
	notes := notification.NewService(notification.NewRepository(db), nil, nil)
	mailer := &captureMailer{}

	return &fixture{
		db:       db,
		users:    users,
		events:   event.NewService(eventRepo, p, audits),
		svc:      NewService(repo, eventRepo, p, users, &notification.DirectPublisher{Service: notes}, mailer, audits),
		notes:    notes,
		audits:   audits,
		mailer:   mailer,
		adminRID: adminRole.ID,
		userRID:  userRole.ID,
	}
}

func (f *fixture) user(t *testing.T, name string) policy.Identity {
	t.Helper()
	u := &auth.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		RoleID:       f.userRID,
		Status:       auth.StatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return policy.User(u.ID)
}

func (f *fixture) admin(t *testing.T, name string) policy.Identity {
	t.Helper()
	u := &auth.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		RoleID:       f.adminRID,
		Status:       auth.StatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return policy.Administrator(u.ID)
}

func (f *fixture) event(t *testing.T, organizer policy.Identity, title string, public bool) *event.Event {
	t.Helper()
	ev, err := f.events.CreateEvent(context.Background(), organizer, event.CreateEventRequest{
		Title:     title,
		StartTime: start,
		EndTime:   end,
		IsPublic:  &public,
	}, "127.0.0.1")
	require.NoError(t, err)
	return ev
}

func TestCreateRSVPAndConflict(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	ev := f.event(t, olivia, "Go Meetup", true)

	rs, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "Going"}, "")
	require.NoError(t, err)
	assert.Equal(t, policy.StatusGoing, rs.Status)
	assert.Equal(t, "uma", rs.UserName)
	assert.Equal(t, "Go Meetup", rs.EventTitle)
	assert.Equal(t, ev.ID, rs.EventID)

	_, err = f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "maybe"}, "")
	assert.ErrorIs(t, err, policy.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&RSVP{}).Where("event_id = ? AND user_id = ?", ev.ID, uma.UserID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	notes, err := f.notes.ListInAppByUser(ctx, olivia.UserID, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, `uma RSVPed Going to "Go Meetup"`, notes[0].Message)

	failed, err := f.audits.GetAuditLogs(ctx, auditlog.AuditLogFilter{Action: auditlog.ActionRSVPCreated, Status: auditlog.StatusFailure})
	require.NoError(t, err)
	assert.EqualValues(t, 1, failed.Total)
}

func TestCreateRSVPValidation(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	ev := f.event(t, olivia, "Go Meetup", true)

	_, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "perhaps"}, "")
	var verr *policy.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Status must be one of: Going, Maybe, Not Going", verr.Message)

	_, err = f.svc.Create(ctx, policy.Anonymous(), ev.ID, StatusRequest{Status: "going"}, "")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	_, err = f.svc.Create(ctx, uma, 9999, StatusRequest{Status: "going"}, "")
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestPrivateEventRSVP(t *testing.T) {
	ctx := context.Background()

	t.Run("closed by default", func(t *testing.T) {
		f := newFixture(t, policy.Options{})
		olivia := f.user(t, "olivia")
		wes := f.user(t, "wes")
		ev := f.event(t, olivia, "Board", false)

		_, err := f.svc.Create(ctx, wes, ev.ID, StatusRequest{Status: "going"}, "")
		assert.ErrorIs(t, err, policy.ErrNotFound)
	})

	t.Run("open private rsvp", func(t *testing.T) {
		f := newFixture(t, policy.Options{OpenPrivateRSVP: true})
		olivia := f.user(t, "olivia")
		wes := f.user(t, "wes")
		ev := f.event(t, olivia, "Board", false)

		_, err := f.events.GetEvent(ctx, wes, ev.ID)
		require.ErrorIs(t, err, policy.ErrNotFound)

		_, err = f.svc.Create(ctx, wes, ev.ID, StatusRequest{Status: "going"}, "")
		require.NoError(t, err)

		got, err := f.events.GetEvent(ctx, wes, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ev.ID, got.ID)
	})
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	vic := f.user(t, "vic")
	root := f.admin(t, "root")
	ev := f.event(t, olivia, "Go Meetup", true)

	rs, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "going"}, "")
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, vic, ev.ID, rs.ID, StatusRequest{Status: "maybe"}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.Update(ctx, olivia, ev.ID, rs.ID, StatusRequest{Status: "maybe"}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied, "organizers cannot edit other people's RSVPs")
	_, err = f.svc.Update(ctx, root, ev.ID, rs.ID, StatusRequest{Status: "maybe"}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied, "admins may delete but not edit")

	updated, err := f.svc.Update(ctx, uma, ev.ID, rs.ID, StatusRequest{Status: "Not Going"}, "")
	require.NoError(t, err)
	assert.Equal(t, policy.StatusNotGoing, updated.Status)

	_, err = f.svc.Update(ctx, uma, ev.ID+1, rs.ID, StatusRequest{Status: "going"}, "")
	assert.ErrorIs(t, err, policy.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, vic, ev.ID, rs.ID, ""), policy.ErrPermissionDenied)
	require.NoError(t, f.svc.Delete(ctx, root, ev.ID, rs.ID, ""))
	assert.ErrorIs(t, f.svc.Delete(ctx, uma, ev.ID, rs.ID, ""), policy.ErrNotFound)

	notes, err := f.notes.ListInAppByUser(ctx, olivia.UserID, false, 0)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, "RSVP removed", notes[0].Title)
	assert.Equal(t, `root removed uma's RSVP for "Go Meetup"`, notes[0].Message)

	notes, err = f.notes.ListInAppByUser(ctx, uma.UserID, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, `root removed uma's RSVP for "Go Meetup"`, notes[0].Message)
}

func TestOwnerDeleteNotifiesOrganizer(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	ev := f.event(t, olivia, "Go Meetup", true)

	rs, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "going"}, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, uma, ev.ID, rs.ID, ""))

	notes, err := f.notes.ListInAppByUser(ctx, olivia.UserID, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, `uma withdrew their RSVP for "Go Meetup"`, notes[0].Message)
}

func TestListForEventFollowsVisibility(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	wes := f.user(t, "wes")
	ev := f.event(t, olivia, "Board", false)

	_, err := f.svc.Invite(ctx, olivia, ev.ID, InviteRequest{User: "uma"}, "")
	require.NoError(t, err)

	items, err := f.svc.ListForEvent(ctx, uma, ev.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, policy.StatusMaybe, items[0].Status)

	_, err = f.svc.ListForEvent(ctx, wes, ev.ID)
	assert.ErrorIs(t, err, policy.ErrNotFound)
	_, err = f.svc.ListForEvent(ctx, policy.Anonymous(), ev.ID)
	assert.ErrorIs(t, err, policy.ErrNotFound)

	mine, err := f.svc.ListMine(ctx, uma)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Board", mine[0].EventTitle)

	_, err = f.svc.ListMine(ctx, policy.Anonymous())
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestInvite(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	f.user(t, "vic")
	ev := f.event(t, olivia, "Board", false)

	_, err := f.svc.Invite(ctx, uma, ev.ID, InviteRequest{User: "vic"}, "")
	assert.ErrorIs(t, err, policy.ErrNotFound, "uma cannot see the event yet")

	rs, err := f.svc.Invite(ctx, olivia, ev.ID, InviteRequest{User: "UMA@example.com"}, "")
	require.NoError(t, err)
	assert.Equal(t, uma.UserID, rs.UserID)
	assert.Equal(t, []invitation{{"uma@example.com", "Board"}}, f.mailer.invites)

	notes, err := f.notes.ListInAppByUser(ctx, uma.UserID, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "You're invited", notes[0].Title)

	_, err = f.svc.Invite(ctx, uma, ev.ID, InviteRequest{User: "vic"}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied, "only the organizer invites")

	_, err = f.svc.Invite(ctx, olivia, ev.ID, InviteRequest{User: "uma"}, "")
	assert.ErrorIs(t, err, policy.ErrConflict)
	_, err = f.svc.Invite(ctx, olivia, ev.ID, InviteRequest{User: "nobody"}, "")
	assert.ErrorIs(t, err, policy.ErrValidation)
	_, err = f.svc.Invite(ctx, olivia, ev.ID, InviteRequest{User: "olivia"}, "")
	assert.ErrorIs(t, err, policy.ErrValidation)
}

func TestExportAttendees(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	ev := f.event(t, olivia, "Go Meetup", true)

	_, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "going"}, "")
	require.NoError(t, err)

	_, err = f.svc.Export(ctx, uma, ev.ID, "csv", "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.Export(ctx, olivia, ev.ID, "doc", "")
	assert.ErrorIs(t, err, policy.ErrValidation)

	file, err := f.svc.Export(ctx, olivia, ev.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "uma", records[1][2])
	assert.Equal(t, "uma@example.com", records[1][3])
	assert.Equal(t, "Going", records[1][4])
}

func TestRSVPsCascadeWithEvent(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia")
	uma := f.user(t, "uma")
	ev := f.event(t, olivia, "Go Meetup", true)

	_, err := f.svc.Create(ctx, uma, ev.ID, StatusRequest{Status: "going"}, "")
	require.NoError(t, err)
	require.NoError(t, f.events.DeleteEvent(ctx, olivia, ev.ID, ""))

	var count int64
	require.NoError(t, f.db.Model(&RSVP{}).Count(&count).Error)
	assert.Zero(t, count)
}
