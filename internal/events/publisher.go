// Package events publishes activity notifications to Kafka. Each publish is
// one synchronous write on the insert path; there is no background
// dispatcher.
package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"example.com/tracker/internal/domain"
)

// ActivityLoggedEvent is the wire shape for a completed activity record.
type ActivityLoggedEvent struct {
	RowID    int64   `json:"row_id"`
	Activity string  `json:"activity"`
	Date     int64   `json:"date"`
	Amount   float64 `json:"amount"`
	UserID   string  `json:"user_id"`
}

// Publisher implements domain.EventPublisher over a single-topic writer.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// ActivityLogged publishes one event keyed by user so a user's entries stay
// ordered within a partition.
func (p *Publisher) ActivityLogged(ctx context.Context, rec domain.ActivityRecord) error {
	payload, err := json.Marshal(ActivityLoggedEvent{
		RowID:    rec.ID,
		Activity: rec.Activity,
		Date:     rec.Date,
		Amount:   rec.Amount,
		UserID:   rec.UserID,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("activity.logged")},
		},
	})
}

// Close releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
