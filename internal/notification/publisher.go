package notification

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sharath018/event-management-backend/config"
)

// Publisher hands activities off for delivery.
type Publisher interface {
	Publish(ctx context.Context, a Activity) error
	Close() error
}

// NewPublisher writes to Kafka when brokers are configured and otherwise
// delivers in-process.
func NewPublisher(cfg *config.Config, svc Service) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("⚠️ KAFKA_BROKERS not set, delivering notifications in-process")
		return &DirectPublisher{Service: svc}
	}
	return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// Notify publishes a and only logs failures. A nil publisher is a no-op.
func Notify(ctx context.Context, p Publisher, a Activity) {
	if p == nil {
		return
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, a); err != nil {
		log.Printf("⚠️ notification %s for event %d not published: %v", a.Type, a.EventID, err)
	}
}

// ===========================
// 📨 In-process
// ===========================

type DirectPublisher struct {
	Service Service
}

func (p *DirectPublisher) Publish(ctx context.Context, a Activity) error {
	return p.Service.Deliver(ctx, a)
}

func (p *DirectPublisher) Close() error { return nil }

// ===========================
// 📨 Kafka
// ===========================

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	log.Printf("✅ Kafka publisher for topic %s on %v", topic, brokers)
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
		},
	}
}

// Publish keys messages by event so activity for one event stays ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, a Activity) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(a.EventID), 10)),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
