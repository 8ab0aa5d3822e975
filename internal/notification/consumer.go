package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
	"github.com/sharath018/event-management-backend/config"
)

// StartKafkaConsumer reads the activity topic and delivers each message until
// ctx is cancelled. It returns immediately when Kafka is not configured.
func StartKafkaConsumer(ctx context.Context, cfg *config.Config, svc Service) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	log.Printf("✅ Kafka consumer %s listening on %s", cfg.KafkaGroupID, cfg.KafkaTopic)

	go func() {
		defer reader.Close()
		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Printf("❌ Kafka consumer stopped: %v", err)
				}
				return
			}

			if err := handleMessage(ctx, svc, m.Value); err != nil {
				log.Printf("⚠️ activity at offset %d dropped: %v", m.Offset, err)
			}
			if err := reader.CommitMessages(ctx, m); err != nil {
				log.Printf("⚠️ commit offset %d: %v", m.Offset, err)
			}
		}
	}()
}

func handleMessage(ctx context.Context, svc Service, value []byte) error {
	var a Activity
	if err := json.Unmarshal(value, &a); err != nil {
		return err
	}
	return svc.Deliver(ctx, a)
}
