package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/sharath018/event-management-backend/config"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPush struct {
	tokens []string
	title  string
	body   string
}

type fakePusher struct {
	sent  []sentPush
	stale map[string]bool
	err   error
}

func (f *fakePusher) Push(_ context.Context, tokens []string, n *InAppNotification) ([]string, error) {
	f.sent = append(f.sent, sentPush{tokens: tokens, title: n.Title, body: n.Message})
	var stale []string
	for _, tok := range tokens {
		if f.stale[tok] {
			stale = append(stale, tok)
		}
	}
	return stale, f.err
}

func newPushService(t *testing.T, p Pusher) (Service, Repository) {
	t.Helper()
	db := testutil.NewDB(t, &InAppNotification{}, &DeviceToken{})
	repo := NewRepository(db)
	return NewService(repo, nil, p), repo
}

func TestRegisterDeviceReactivates(t *testing.T) {
	svc, repo := newPushService(t, nil)
	ctx := context.Background()

	tok, err := svc.RegisterDevice(ctx, 1, RegisterDeviceRequest{DeviceToken: "tok-a", DeviceType: "android"})
	require.NoError(t, err)
	assert.True(t, tok.IsActive)

	require.NoError(t, svc.UnregisterDevice(ctx, 1, "tok-a"))
	assert.ErrorIs(t, svc.UnregisterDevice(ctx, 1, "tok-a"), policy.ErrNotFound)
	assert.ErrorIs(t, svc.UnregisterDevice(ctx, 2, "tok-b"), policy.ErrNotFound)

	tokens, err := repo.ActiveDeviceTokens(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	again, err := svc.RegisterDevice(ctx, 1, RegisterDeviceRequest{DeviceToken: "tok-a", DeviceType: "web", DeviceName: "laptop"})
	require.NoError(t, err)
	assert.Equal(t, tok.ID, again.ID, "the same row is reused")
	assert.Equal(t, "web", again.DeviceType)

	tokens, err = repo.ActiveDeviceTokens(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a"}, tokens)
}

func TestDeliverPushesToActiveDevices(t *testing.T) {
	p := &fakePusher{stale: map[string]bool{"gone": true}}
	svc, repo := newPushService(t, p)
	ctx := context.Background()

	_, err := svc.RegisterDevice(ctx, 1, RegisterDeviceRequest{DeviceToken: "phone"})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, 1, RegisterDeviceRequest{DeviceToken: "gone"})
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, Activity{Type: TypeInvited, ActorID: 2, ActorName: "olivia", RecipientID: 1, EventID: 3, EventTitle: "Launch"}))
	require.Len(t, p.sent, 1)
	assert.Equal(t, []string{"phone", "gone"}, p.sent[0].tokens)
	assert.Equal(t, "You're invited", p.sent[0].title)
	assert.Equal(t, `olivia invited you to "Launch"`, p.sent[0].body)

	tokens, err := repo.ActiveDeviceTokens(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, tokens, "unregistered tokens are switched off")

	// users without devices are not pushed to
	require.NoError(t, svc.Deliver(ctx, Activity{Type: TypeInvited, ActorID: 1, RecipientID: 2, EventTitle: "Launch"}))
	assert.Len(t, p.sent, 1)
}

func TestDeliverKeepsInAppWhenPushFails(t *testing.T) {
	p := &fakePusher{err: errors.New("fcm down")}
	svc, _ := newPushService(t, p)
	ctx := context.Background()

	_, err := svc.RegisterDevice(ctx, 1, RegisterDeviceRequest{DeviceToken: "phone"})
	require.NoError(t, err)
	require.NoError(t, svc.Deliver(ctx, Activity{Type: TypeRSVPCreated, ActorID: 2, RecipientID: 1, EventTitle: "Launch", Detail: "Going"}))

	items, err := svc.ListInAppByUser(ctx, 1, false, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewFCMPusherDisabledWithoutCredentials(t *testing.T) {
	assert.Nil(t, NewFCMPusher(context.Background(), &config.Config{}))
}

func TestMulticastCarriesNotification(t *testing.T) {
	eventID := uint(9)
	msg := multicast([]string{"a", "b"}, &InAppNotification{ID: 4, EventID: &eventID, Title: "New RSVP", Message: "hi", Category: CategoryEvent})
	assert.Equal(t, []string{"a", "b"}, msg.Tokens)
	assert.Equal(t, "New RSVP", msg.Notification.Title)
	assert.Equal(t, "hi", msg.Notification.Body)
	assert.Equal(t, map[string]string{"notification_id": "4", "event_id": "9", "category": "event"}, msg.Data)
}
