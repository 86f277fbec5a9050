package service

import (
	"context"
	"math"
	"time"

	"skyseat/pkg/kafka"
	"skyseat/pkg/model"
)

// Passenger-type price factors relative to the adult unit price.
const (
	childFareFactor  = 0.75
	infantFareFactor = 0.10
)

// fareSnapshot freezes per-passenger unit prices from a published fare.
// The adult unit is base + tax + service fee; child and infant units are
// rounded fractions of it. The segment total weighs each unit by its count.
func fareSnapshot(fare *model.FlightFare, pax model.PassengerCounts) model.PriceSnapshot {
	adult := fare.BasePrice + fare.Tax + fare.ServiceFee
	child := int64(math.Round(float64(adult) * childFareFactor))
	infant := int64(math.Round(float64(adult) * infantFareFactor))

	return model.PriceSnapshot{
		Currency: fare.Currency,
		Adult:    adult,
		Child:    child,
		Infant:   infant,
		Total: int64(pax.Adults)*adult +
			int64(pax.Children)*child +
			int64(pax.Infants)*infant,
	}
}

// sessionEventPayload is the body of every session lifecycle event.
type sessionEventPayload struct {
	PublicID   string    `json:"public_id"`
	OwnerType  string    `json:"owner_type"`
	TripType   string    `json:"trip_type"`
	Status     string    `json:"status"`
	HeldSeats  int       `json:"held_seats"`
	GrandTotal int64     `json:"grand_total"`
	Currency   string    `json:"currency"`
	ExpiresAt  time.Time `json:"expires_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent emits a lifecycle event, best effort. A broker outage never
// fails the request that triggered the event.
func (s *sessionService) publishEvent(ctx context.Context, eventType string, session *model.BookingSession) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(session.PublicID).
		WithEventType(eventType).
		WithSource("skyseat-api").
		WithSchemaVersion("1").
		WithValue(sessionEventPayload{
			PublicID:   session.PublicID,
			OwnerType:  session.OwnerType,
			TripType:   session.TripType,
			Status:     session.Status,
			HeldSeats:  session.HeldSeatCount(),
			GrandTotal: session.GrandTotal.Total,
			Currency:   session.GrandTotal.Currency,
			ExpiresAt:  session.ExpiresAt,
			OccurredAt: time.Now().UTC(),
		}).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish session event",
			"event_type", eventType,
			"public_id", session.PublicID,
			"error", err,
		)
	}
}
