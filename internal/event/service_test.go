package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/event"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/rsvp"
	"github.com/sharath018/event-management-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type noReviews struct{}

func (noReviews) HasReview(context.Context, uint, uint) (bool, error) { return false, nil }

var (
	start = time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	db    *gorm.DB
	users auth.Repository
	rsvps *rsvp.Repository
	svc   *event.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &auth.UserRole{}, &auth.User{}, &event.Event{}, &rsvp.RSVP{})
	users := auth.NewRepository(db)
	require.NoError(t, users.SeedRoles(context.Background()))

	rsvps := rsvp.NewRepository(db)
	p := policy.New(rsvps, noReviews{}, policy.Options{})
	return &fixture{
		db:    db,
		users: users,
		rsvps: rsvps,
		svc:   event.NewService(event.NewRepository(db), p, nil),
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

func (f *fixture) create(t *testing.T, organizer policy.Identity, title, location string, public bool, startAt time.Time) *event.Event {
	t.Helper()
	ev, err := f.svc.CreateEvent(context.Background(), organizer, event.CreateEventRequest{
		Title:     title,
		Location:  location,
		StartTime: startAt,
		EndTime:   startAt.Add(2 * time.Hour),
		IsPublic:  &public,
	}, "")
	require.NoError(t, err)
	return ev
}

func (f *fixture) rsvp(t *testing.T, ev *event.Event, who policy.Identity, status policy.RSVPStatus) {
	t.Helper()
	require.NoError(t, f.rsvps.Create(context.Background(), &rsvp.RSVP{EventID: ev.ID, UserID: who.UserID, Status: status}))
}

func titles(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)

	ev, err := f.svc.CreateEvent(ctx, olivia, event.CreateEventRequest{
		Title:     "  Go Meetup ",
		StartTime: start.In(time.FixedZone("CET", 3600)),
		EndTime:   end,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", ev.Title)
	assert.True(t, ev.IsPublic, "is_public defaults to true")
	assert.Equal(t, olivia.UserID, ev.OrganizerID)
	assert.Equal(t, "olivia", ev.OrganizerName)
	assert.True(t, ev.StartTime.Equal(start))
	assert.Zero(t, ev.RSVPCount)

	_, err = f.svc.CreateEvent(ctx, olivia, event.CreateEventRequest{Title: "Bad", StartTime: end, EndTime: start}, "")
	var verr *policy.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "End time must be after start time.", verr.Message)

	_, err = f.svc.CreateEvent(ctx, olivia, event.CreateEventRequest{Title: "Same", StartTime: start, EndTime: start}, "")
	assert.ErrorIs(t, err, policy.ErrValidation)

	_, err = f.svc.CreateEvent(ctx, policy.Anonymous(), event.CreateEventRequest{Title: "Anon", StartTime: start, EndTime: end}, "")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestGetEventHidesPrivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	wes := f.user(t, "wes", auth.RoleUser)
	root := f.user(t, "root", auth.RoleAdmin)
	ev := f.create(t, olivia, "Board", "HQ", false, start)
	f.rsvp(t, ev, uma, policy.StatusNotGoing)

	for name, id := range map[string]policy.Identity{"organizer": olivia, "invited": uma, "admin": root} {
		got, err := f.svc.GetEvent(ctx, id, ev.ID)
		require.NoError(t, err, name)
		assert.EqualValues(t, 1, got.RSVPCount, name)
	}
	for name, id := range map[string]policy.Identity{"stranger": wes, "anonymous": policy.Anonymous()} {
		_, err := f.svc.GetEvent(ctx, id, ev.ID)
		assert.ErrorIs(t, err, policy.ErrNotFound, name)
	}
	_, err := f.svc.GetEvent(ctx, olivia, 9999)
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestListEventsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	wes := f.user(t, "wes", auth.RoleUser)
	root := f.user(t, "root", auth.RoleAdmin)

	public := f.create(t, olivia, "Meetup", "Berlin", true, start)
	private := f.create(t, olivia, "Board", "HQ", false, start.Add(time.Hour))
	f.rsvp(t, private, uma, policy.StatusGoing)
	// several matching conditions must not duplicate the event
	f.rsvp(t, public, olivia, policy.StatusGoing)
	f.rsvp(t, public, uma, policy.StatusMaybe)

	tests := []struct {
		name string
		id   policy.Identity
		want []string
	}{
		{"anonymous", policy.Anonymous(), []string{"Meetup"}},
		{"stranger", wes, []string{"Meetup"}},
		{"invited", uma, []string{"Meetup", "Board"}},
		{"organizer", olivia, []string{"Meetup", "Board"}},
		{"admin", root, []string{"Meetup", "Board"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListEvents(ctx, tt.id, event.ListQuery{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(page.Results))
			assert.EqualValues(t, len(tt.want), page.Count)
		})
	}
}

func TestListEventsQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	bob := f.user(t, "bobby", auth.RoleUser)

	f.create(t, olivia, "Go Meetup", "Berlin", true, start.Add(48*time.Hour))
	f.create(t, bob, "Rust Night", "Paris", true, start)
	f.create(t, olivia, "Hidden", "Berlin", false, start.Add(24*time.Hour))

	tests := []struct {
		name string
		q    event.ListQuery
		want []string
	}{
		{"search title", event.ListQuery{Search: "meetup"}, []string{"Go Meetup"}},
		{"search location", event.ListQuery{Search: "PAR"}, []string{"Rust Night"}},
		{"search organizer", event.ListQuery{Search: "bobby"}, []string{"Rust Night"}},
		{"location filter", event.ListQuery{Location: "Berlin"}, []string{"Go Meetup", "Hidden"}},
		{"is_public filter", event.ListQuery{IsPublic: boolPtr(false)}, []string{"Hidden"}},
		{"order start", event.ListQuery{Ordering: "start_time"}, []string{"Rust Night", "Hidden", "Go Meetup"}},
		{"order start desc", event.ListQuery{Ordering: "-start_time"}, []string{"Go Meetup", "Hidden", "Rust Night"}},
		{"paged", event.ListQuery{Ordering: "start_time", Limit: 1, Offset: 1}, []string{"Hidden"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListEvents(ctx, olivia, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(page.Results))
		})
	}

	page, err := f.svc.ListEvents(ctx, olivia, event.ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	assert.Len(t, page.Results, 1)

	_, err = f.svc.ListEvents(ctx, olivia, event.ListQuery{Ordering: "title"})
	assert.ErrorIs(t, err, policy.ErrValidation)
}

func TestUpdateEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	vic := f.user(t, "vic", auth.RoleUser)
	root := f.user(t, "root", auth.RoleAdmin)
	ev := f.create(t, olivia, "Go Meetup", "Berlin", true, start)

	title := "Renamed"
	_, err := f.svc.UpdateEvent(ctx, vic, ev.ID, event.UpdateEventRequest{Title: &title}, true, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.UpdateEvent(ctx, root, ev.ID, event.UpdateEventRequest{Title: &title}, true, "")
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
	_, err = f.svc.UpdateEvent(ctx, policy.Anonymous(), ev.ID, event.UpdateEventRequest{Title: &title}, true, "")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	_, err = f.svc.UpdateEvent(ctx, olivia, ev.ID, event.UpdateEventRequest{Title: &title}, false, "")
	assert.ErrorIs(t, err, policy.ErrValidation, "PUT needs the full event")

	early := start.Add(-time.Hour)
	_, err = f.svc.UpdateEvent(ctx, olivia, ev.ID, event.UpdateEventRequest{EndTime: &early}, true, "")
	assert.ErrorIs(t, err, policy.ErrValidation, "merged times are validated")

	private := false
	got, err := f.svc.UpdateEvent(ctx, olivia, ev.ID, event.UpdateEventRequest{Title: &title, IsPublic: &private}, true, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.False(t, got.IsPublic)
	assert.Equal(t, "Berlin", got.Location)

	_, err = f.svc.GetEvent(ctx, vic, ev.ID)
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	vic := f.user(t, "vic", auth.RoleUser)
	root := f.user(t, "root", auth.RoleAdmin)
	first := f.create(t, olivia, "First", "", true, start)
	second := f.create(t, olivia, "Second", "", false, start)

	assert.ErrorIs(t, f.svc.DeleteEvent(ctx, vic, first.ID, ""), policy.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteEvent(ctx, vic, second.ID, ""), policy.ErrNotFound)
	require.NoError(t, f.svc.DeleteEvent(ctx, olivia, first.ID, ""))
	require.NoError(t, f.svc.DeleteEvent(ctx, root, second.ID, ""))
	assert.ErrorIs(t, f.svc.DeleteEvent(ctx, olivia, first.ID, ""), policy.ErrNotFound)
}

func TestParseOrdering(t *testing.T) {
	order, err := event.ParseOrdering("-start_time, created_at")
	require.NoError(t, err)
	assert.Equal(t, "events.start_time DESC, events.created_at ASC, events.id ASC", order)

	order, err = event.ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, "events.id ASC", order)

	_, err = event.ParseOrdering("-")
	assert.ErrorIs(t, err, policy.ErrValidation)
}

func boolPtr(b bool) *bool { return &b }
