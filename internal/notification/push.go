package notification

import (
	"context"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sharath018/event-management-backend/config"
	"google.golang.org/api/option"
)

// fcmBatchSize is the most tokens FCM accepts in one multicast.
const fcmBatchSize = 500

// Pusher sends a push notification to device tokens. It returns the tokens the
// provider no longer recognises.
type Pusher interface {
	Push(ctx context.Context, tokens []string, n *InAppNotification) (stale []string, err error)
}

// FCMPusher delivers through Firebase Cloud Messaging.
type FCMPusher struct {
	client *messaging.Client
}

// NewFCMPusher returns nil when FCM_CREDENTIALS_PATH is unset or Firebase
// cannot be initialised, leaving push disabled.
func NewFCMPusher(ctx context.Context, cfg *config.Config) Pusher {
	if cfg.FCMCredentialsPath == "" {
		log.Println("⚠️  FCM not configured (FCM_CREDENTIALS_PATH missing)")
		return nil
	}

	var fbCfg *firebase.Config
	if cfg.FCMProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FCMProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.FCMCredentialsPath))
	if err != nil {
		log.Printf("❌ Error initializing Firebase app: %v", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("❌ Error getting FCM client: %v", err)
		return nil
	}

	log.Println("✅ FCM initialized for project:", cfg.FCMProjectID)
	return &FCMPusher{client: client}
}

func (f *FCMPusher) Push(ctx context.Context, tokens []string, n *InAppNotification) ([]string, error) {
	var stale []string
	failed := 0

	for i := 0; i < len(tokens); i += fcmBatchSize {
		end := i + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		resp, err := f.client.SendEachForMulticast(ctx, multicast(batch, n))
		if err != nil {
			log.Printf("❌ Error sending FCM multicast batch: %v", err)
			failed += len(batch)
			continue
		}

		for idx, r := range resp.Responses {
			if r.Success {
				continue
			}
			if messaging.IsUnregistered(r.Error) {
				stale = append(stale, batch[idx])
				continue
			}
			failed++
		}
	}

	if failed > 0 {
		return stale, fmt.Errorf("fcm: %d/%d tokens failed", failed, len(tokens))
	}
	return stale, nil
}

func multicast(tokens []string, n *InAppNotification) *messaging.MulticastMessage {
	data := map[string]string{
		"notification_id": strconv.FormatUint(uint64(n.ID), 10),
		"category":        n.Category,
	}
	if n.EventID != nil {
		data["event_id"] = strconv.FormatUint(uint64(*n.EventID), 10)
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    "event_notifications",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: n.Title,
				Body:  n.Message,
			},
		},
	}
}
