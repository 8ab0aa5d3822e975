package review

import (
	"context"
	"testing"
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/notification"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/rsvp"
	"github.com/sharath018/event-management-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	start = time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	db     *gorm.DB
	users  auth.Repository
	rsvps  *rsvp.Repository
	events *event.Service
	notes  notification.Service
	svc    *Service
}

func newFixture(t *testing.T, opts policy.Options) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&auth.UserRole{}, &auth.User{}, &event.Event{}, &rsvp.RSVP{}, &Review{},
		&notification.InAppNotification{})

	users := auth.NewRepository(db)
	require.NoError(t, users.SeedRoles(context.Background()))

	repo := NewRepository(db)
	rsvps := rsvp.NewRepository(db)
	eventRepo := event.NewRepository(db)
	p := policy.New(rsvps, repo, opts)
	notes := notification.NewService(notification.NewRepository(db), nil, nil)

	return &fixture{
		db:     db,
		users:  users,
		rsvps:  rsvps,
		events: event.NewService(eventRepo, p, nil),
		notes:  notes,
		svc:    NewService(repo, eventRepo, p, users, &notification.DirectPublisher{Service: notes}, nil),
	}
}

func (f *fixture) user(t *testing.T, name, role string) policy.Identity {
	t.Helper()
	ctx := context.Background()
	r, err := f.users.FindRoleByName(ctx, role)
	require.NoError(t, err)
	u := &auth.User{Username: name, Email: name + "@example.com", PasswordHash: "x", RoleID: r.ID, Status: auth.StatusActive}
	require.NoError(t, f.users.Create(ctx, u))
	u.Role = *r
	return u.Identity()
}

func (f *fixture) event(t *testing.T, organizer policy.Identity, public bool) *event.Event {
	t.Helper()
	ev, err := f.events.CreateEvent(context.Background(), organizer, event.CreateEventRequest{
		Title: "Go Meetup", StartTime: start, EndTime: end, IsPublic: &public,
	}, "")
	require.NoError(t, err)
	return ev
}

func rating(n int) *int { return &n }

func TestCreateReview(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	ev := f.event(t, olivia, true)

	_, err := f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{Rating: rating(6)}, "")
	var verr *policy.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Field)
	assert.Equal(t, "Rating must be between 1 and 5.", verr.Message)

	_, err = f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{}, "")
	assert.ErrorIs(t, err, policy.ErrValidation)

	rv, err := f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{Rating: rating(4), Comment: "Nice"}, "")
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, "uma", rv.UserName)
	assert.Equal(t, "Go Meetup", rv.EventTitle)

	_, err = f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{Rating: rating(5)}, "")
	assert.ErrorIs(t, err, policy.ErrConflict)

	_, err = f.svc.Create(ctx, policy.Anonymous(), ev.ID, CreateReviewRequest{Rating: rating(5)}, "")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	notes, err := f.notes.ListInAppByUser(ctx, olivia.UserID, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, `uma rated "Go Meetup" 4/5`, notes[0].Message)
}

func TestReviewPrivateEvent(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	wes := f.user(t, "wes", auth.RoleUser)
	ev := f.event(t, olivia, false)

	_, err := f.svc.Create(ctx, wes, ev.ID, CreateReviewRequest{Rating: rating(3)}, "")
	assert.ErrorIs(t, err, policy.ErrNotFound)
	_, err = f.svc.List(ctx, wes, ev.ID)
	assert.ErrorIs(t, err, policy.ErrNotFound)

	require.NoError(t, f.rsvps.Create(ctx, &rsvp.RSVP{EventID: ev.ID, UserID: wes.UserID, Status: policy.StatusMaybe}))
	_, err = f.svc.Create(ctx, wes, ev.ID, CreateReviewRequest{Rating: rating(3)}, "")
	require.NoError(t, err)
}

func TestReviewRequiresAttendance(t *testing.T) {
	f := newFixture(t, policy.Options{
		ReviewRequiresAttendance: true,
		Now:                      func() time.Time { return end.Add(time.Hour) },
	})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	vic := f.user(t, "vic", auth.RoleUser)
	ev := f.event(t, olivia, true)

	require.NoError(t, f.rsvps.Create(ctx, &rsvp.RSVP{EventID: ev.ID, UserID: uma.UserID, Status: policy.StatusGoing}))
	require.NoError(t, f.rsvps.Create(ctx, &rsvp.RSVP{EventID: ev.ID, UserID: vic.UserID, Status: policy.StatusMaybe}))

	_, err := f.svc.Create(ctx, vic, ev.ID, CreateReviewRequest{Rating: rating(2)}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{Rating: rating(5)}, "")
	require.NoError(t, err)
}

func TestUpdateDeleteAndSummary(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	vic := f.user(t, "vic", auth.RoleUser)
	root := f.user(t, "root", auth.RoleAdmin)
	ev := f.event(t, olivia, true)

	first, err := f.svc.Create(ctx, uma, ev.ID, CreateReviewRequest{Rating: rating(4)}, "")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, vic, ev.ID, CreateReviewRequest{Rating: rating(1)}, "")
	require.NoError(t, err)

	list, err := f.svc.List(ctx, policy.Anonymous(), ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Summary.Count)
	assert.InDelta(t, 2.5, list.Summary.Average, 0.001)
	assert.Len(t, list.Results, 2)

	comment := "Changed my mind"
	_, err = f.svc.Update(ctx, olivia, ev.ID, first.ID, UpdateReviewRequest{Comment: &comment}, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.Update(ctx, uma, ev.ID, first.ID, UpdateReviewRequest{Rating: rating(0)}, "")
	assert.ErrorIs(t, err, policy.ErrValidation)

	updated, err := f.svc.Update(ctx, uma, ev.ID, first.ID, UpdateReviewRequest{Rating: rating(2), Comment: &comment}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, comment, updated.Comment)

	assert.ErrorIs(t, f.svc.Delete(ctx, vic, ev.ID, first.ID, ""), policy.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Delete(ctx, olivia, ev.ID, first.ID, ""), policy.ErrPermissionDenied)
	require.NoError(t, f.svc.Delete(ctx, root, ev.ID, first.ID, ""))

	list, err = f.svc.List(ctx, uma, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Summary.Count)

	empty := f.event(t, olivia, true)
	list, err = f.svc.List(ctx, uma, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, list.Summary.Average)
	assert.Empty(t, list.Results)
}

func TestRatingCheckConstraint(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	ev := f.event(t, olivia, true)

	err := f.svc.Repo.Create(ctx, &Review{EventID: ev.ID, UserID: olivia.UserID, Rating: 9})
	assert.Error(t, err)
}
