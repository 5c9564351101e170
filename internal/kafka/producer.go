package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventFlightPlanCreated = "flightplan.created"
	EventFlightPlanUpdated = "flightplan.updated"
	EventFlightPlanDeleted = "flightplan.deleted"
)

// FlightPlanEvent is published after every committed change to a flight
// plan. Profitable and Profit are only set while the plan is complete.
type FlightPlanEvent struct {
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	FlightPlanID int64  `json:"flight_plan_id"`
	UserID       int64  `json:"user_id"`
	SaveName     string `json:"save_name"`
	Status       string `json:"status"`
	Profitable   *bool  `json:"profitable,omitempty"`
	Profit       string `json:"profit,omitempty"`

	// PreviousStatus and PreviousProfitable describe the plan as it was
	// stored before the change. They are empty on created events.
	PreviousStatus     string `json:"previous_status,omitempty"`
	PreviousProfitable *bool  `json:"previous_profitable,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	log.Printf("published to Kafka - topic: %s, key: %s", topic, key)
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no Kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	log.Printf("connected to Kafka, %d partitions visible", len(partitions))
	return nil
}
