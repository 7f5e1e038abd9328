package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diagnosis/sindhu-tours/pkg/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url, nats.Name("sindhu-tours-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, uuid.NewString())
	if rid, ok := ctx.Value(logger.RequestIDKey).(string); ok && rid != "" {
		msg.Header.Set("X-Request-ID", rid)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.PublishMsg(msg)
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

// LogBus stands in for NATS when no URL is configured.
type LogBus struct{}

func (LogBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	logger.InfoContext(ctx, "event", "subject", subject, "data", string(payload))
	return nil
}

func (LogBus) Close() error { return nil }

const (
	BookingCreated   = "booking.created"
	BookingCompleted = "booking.completed"

	ReviewSubmitted = "review.submitted"

	TourCreated = "tour.created"
	TourUpdated = "tour.updated"
	TourDeleted = "tour.deleted"

	ProfileRegistered = "profile.registered"
)

type BookingCreatedEvent struct {
	BookingID      int64     `json:"booking_id"`
	TourID         int64     `json:"tour_id"`
	UserID         string    `json:"user_id"`
	Status         string    `json:"status"`
	NumberOfPeople int       `json:"number_of_people"`
	CreatedAt      time.Time `json:"created_at"`
}

type BookingCompletedEvent struct {
	TourID      int64     `json:"tour_id"`
	BookingIDs  []int64   `json:"booking_ids"`
	CompletedBy string    `json:"completed_by"`
	CompletedAt time.Time `json:"completed_at"`
}

type ReviewSubmittedEvent struct {
	ReviewID  int64     `json:"review_id"`
	BookingID int64     `json:"booking_id"`
	TourID    int64     `json:"tour_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type TourChangedEvent struct {
	TourID    int64     `json:"tour_id"`
	ActorID   string    `json:"actor_id"`
	ChangedAt time.Time `json:"changed_at"`
}

type ProfileRegisteredEvent struct {
	ProfileID string    `json:"profile_id"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
