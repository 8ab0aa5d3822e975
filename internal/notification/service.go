package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

type Service interface {
	// Deliver turns an activity into an in-app notification for its recipient.
	Deliver(ctx context.Context, a Activity) error
	ListInAppByUser(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	// Subscribe streams new notifications for userID. It returns nil when no
	// Redis connection is configured.
	Subscribe(ctx context.Context, userID uint) *redis.PubSub

	RegisterDevice(ctx context.Context, userID uint, req RegisterDeviceRequest) (*DeviceToken, error)
	UnregisterDevice(ctx context.Context, userID uint, deviceToken string) error
}

type service struct {
	repo   Repository
	redis  *redis.Client
	pusher Pusher
}

// NewService builds the notification service. rdb may be nil, in which case
// live streaming is unavailable; pusher may be nil to disable device push.
func NewService(repo Repository, rdb *redis.Client, pusher Pusher) Service {
	return &service{repo: repo, redis: rdb, pusher: pusher}
}

func userChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

func (s *service) Deliver(ctx context.Context, a Activity) error {
	// nobody is told about their own actions
	if a.RecipientID == 0 || a.RecipientID == a.ActorID {
		return nil
	}

	title, message := render(a)
	item := &InAppNotification{
		UserID:   a.RecipientID,
		Title:    title,
		Message:  message,
		Category: CategoryEvent,
	}
	if a.EventID != 0 {
		eventID := a.EventID
		item.EventID = &eventID
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.redis != nil {
		payload, _ := json.Marshal(item)
		if err := s.redis.Publish(ctx, userChannel(item.UserID), string(payload)).Err(); err != nil {
			log.Printf("⚠️ notification stream publish failed for user %d: %v", item.UserID, err)
		}
	}

	s.push(ctx, item)
	return nil
}

// push fans the stored notification out to the recipient's devices. Failures
// are logged; the in-app copy is already saved.
func (s *service) push(ctx context.Context, item *InAppNotification) {
	if s.pusher == nil {
		return
	}
	tokens, err := s.repo.ActiveDeviceTokens(ctx, item.UserID)
	if err != nil {
		log.Printf("⚠️ device tokens for user %d: %v", item.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	stale, err := s.pusher.Push(ctx, tokens, item)
	if err != nil {
		log.Printf("⚠️ push to user %d: %v", item.UserID, err)
	}
	if len(stale) > 0 {
		if err := s.repo.DeactivateDeviceTokens(ctx, stale); err != nil {
			log.Printf("⚠️ deactivate %d stale tokens: %v", len(stale), err)
		}
	}
}

func (s *service) RegisterDevice(ctx context.Context, userID uint, req RegisterDeviceRequest) (*DeviceToken, error) {
	token := &DeviceToken{
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		DeviceName:  req.DeviceName,
	}
	if err := s.repo.SaveDeviceToken(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *service) UnregisterDevice(ctx context.Context, userID uint, deviceToken string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, deviceToken)
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]InAppNotification, error) {
	return s.repo.ListInAppByUser(ctx, userID, unreadOnly, limit)
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) Subscribe(ctx context.Context, userID uint) *redis.PubSub {
	if s.redis == nil {
		return nil
	}
	return s.redis.Subscribe(ctx, userChannel(userID))
}

func render(a Activity) (title, message string) {
	actor := a.ActorName
	if actor == "" {
		actor = "Someone"
	}
	switch a.Type {
	case TypeRSVPCreated:
		return "New RSVP", fmt.Sprintf("%s RSVPed %s to %q", actor, a.Detail, a.EventTitle)
	case TypeRSVPUpdated:
		return "RSVP changed", fmt.Sprintf("%s changed their RSVP for %q to %s", actor, a.EventTitle, a.Detail)
	case TypeRSVPDeleted:
		return "RSVP withdrawn", fmt.Sprintf("%s withdrew their RSVP for %q", actor, a.EventTitle)
	case TypeRSVPRemoved:
		return "RSVP removed", fmt.Sprintf("%s removed %s's RSVP for %q", actor, a.Detail, a.EventTitle)
	case TypeReviewCreated:
		return "New review", fmt.Sprintf("%s rated %q %s/5", actor, a.EventTitle, a.Detail)
	case TypeInvited:
		return "You're invited", fmt.Sprintf("%s invited you to %q", actor, a.EventTitle)
	default:
		return "Event activity", fmt.Sprintf("%s: %s", a.Type, a.EventTitle)
	}
}
