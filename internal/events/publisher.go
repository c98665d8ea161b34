package events

import (
	"context"
	"time"

	"laurent/pkg/kafka"
	"laurent/pkg/logger"
	"laurent/pkg/middleware"
	"laurent/pkg/model"
)

const (
	Source        = "laurent-api"
	SchemaVersion = "1"

	TypeBookingCreated        = "booking.created"
	TypeMenuDocumentActivated = "menu.pdf.activated"
	TypeMenuDocumentDeleted   = "menu.pdf.deleted"
)

// Publisher announces domain changes. Implementations never fail the caller;
// delivery problems are logged.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	MenuDocumentActivated(ctx context.Context, doc *model.MenuDocument)
	MenuDocumentDeleted(ctx context.Context, doc *model.MenuDocument)
}

type BookingCreatedEvent struct {
	BookingID     string    `json:"bookingId"`
	CustomerEmail string    `json:"customerEmail"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Guests        int       `json:"guests"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type MenuDocumentEvent struct {
	DocumentID string    `json:"documentId"`
	MenuTitle  string    `json:"menuTitle"`
	Filename   string    `json:"filename"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Sender is the part of kafka.Producer the publisher needs.
type Sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	sender Sender
	log    *logger.Logger
}

func NewKafkaPublisher(sender Sender, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		sender: sender,
		log:    log,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking.ID, BookingCreatedEvent{
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		Date:          booking.DateString(),
		Time:          booking.Time,
		Guests:        booking.Guests,
		Status:        booking.Status,
		OccurredAt:    time.Now().UTC(),
	})
}

func (p *kafkaPublisher) MenuDocumentActivated(ctx context.Context, doc *model.MenuDocument) {
	p.publish(ctx, TypeMenuDocumentActivated, doc.MenuTitle, menuEvent(doc))
}

func (p *kafkaPublisher) MenuDocumentDeleted(ctx context.Context, doc *model.MenuDocument) {
	p.publish(ctx, TypeMenuDocumentDeleted, doc.MenuTitle, menuEvent(doc))
}

func menuEvent(doc *model.MenuDocument) MenuDocumentEvent {
	return MenuDocumentEvent{
		DocumentID: doc.ID,
		MenuTitle:  doc.MenuTitle,
		Filename:   doc.Filename,
		OccurredAt: time.Now().UTC(),
	}
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	builder := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source)
	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok && requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}

	msg, err := builder.Build()
	if err != nil {
		p.log.Error("Failed to build event", "event_type", eventType, "key", key, "error", err)
		return
	}

	// The event outlives the request that triggered it.
	if err := p.sender.Publish(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingCreated(context.Context, *model.Booking)             {}
func (noopPublisher) MenuDocumentActivated(context.Context, *model.MenuDocument) {}
func (noopPublisher) MenuDocumentDeleted(context.Context, *model.MenuDocument)   {}
