package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedsheet/internal/models"
)

// KafkaPublisher emits every record appended to the sink.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(broker, topic string) (*KafkaPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &KafkaPublisher{producer: p, topic: topic}, nil
}

// Publish produces one message per record, keyed by link, and waits for
// every delivery report.
func (kp *KafkaPublisher) Publish(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	deliveries := make(chan kafka.Event, len(records))
	produced := 0
	for _, record := range records {
		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("[KafkaClient] failed to marshal record: %w", err)
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
			Key:            []byte(record.Link),
			Value:          value,
		}
		if err := kp.producer.Produce(msg, deliveries); err != nil {
			return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
		}
		produced++
	}

	var failed int
	for i := 0; i < produced; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-deliveries:
			if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				failed++
				slog.Warn("[KafkaClient] Delivery failed",
					slog.String("error", m.TopicPartition.Error.Error()))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("[KafkaClient] %d of %d records were not delivered", failed, produced)
	}

	slog.Info("[KafkaClient] Published records",
		slog.String("topic", kp.topic), slog.Int("count", produced))
	return nil
}

func (kp *KafkaPublisher) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := kp.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
}
