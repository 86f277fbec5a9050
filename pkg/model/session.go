package model

import (
	"time"
)

// Booking session owner types.
const (
	OwnerTypeAccount = "ACCOUNT"
	OwnerTypeGuest   = "GUEST"
)

// Trip types.
const (
	TripTypeOneWay    = "ONE_WAY"
	TripTypeRoundTrip = "ROUND_TRIP"
)

// Segment directions.
const (
	DirectionOutbound = "OUTBOUND"
	DirectionInbound  = "INBOUND"
)

// Booking session statuses. ACTIVE, HOLDING and PAYMENT_PENDING are live;
// CONFIRMED, CANCELLED and EXPIRED are terminal.
const (
	SessionStatusActive         = "ACTIVE"
	SessionStatusHolding        = "HOLDING"
	SessionStatusPaymentPending = "PAYMENT_PENDING"
	SessionStatusConfirmed      = "CONFIRMED"
	SessionStatusCancelled      = "CANCELLED"
	SessionStatusExpired        = "EXPIRED"
)

// LiveSessionStatuses lists the statuses a session can still be acted on in.
func LiveSessionStatuses() []string {
	return []string{SessionStatusActive, SessionStatusHolding, SessionStatusPaymentPending}
}

// IsTerminalSessionStatus reports whether the status admits no further transitions.
func IsTerminalSessionStatus(status string) bool {
	switch status {
	case SessionStatusConfirmed, SessionStatusCancelled, SessionStatusExpired:
		return true
	}
	return false
}

// PassengerCounts partitions the travelling party. Infants travel on an
// adult's lap and never receive seat assignments.
type PassengerCounts struct {
	Adults   int `json:"adults" bson:"adults" validate:"min=1,max=9"`
	Children int `json:"children" bson:"children" validate:"min=0,max=9"`
	Infants  int `json:"infants" bson:"infants" validate:"min=0,max=9"`
}

// Seated returns the number of passengers who require a seat.
func (p PassengerCounts) Seated() int {
	return p.Adults + p.Children
}

// PriceSnapshot freezes fare money at the moment of session creation, in
// minor units of Currency. On a segment the passenger-type fields are unit
// prices; on the session grand total they are amount-weighted (count x unit)
// and sum to Total.
type PriceSnapshot struct {
	Currency string `json:"currency" bson:"currency"`
	Adult    int64  `json:"adult" bson:"adult"`
	Child    int64  `json:"child" bson:"child"`
	Infant   int64  `json:"infant" bson:"infant"`
	Total    int64  `json:"total" bson:"total"`
}

// SeatAssignment binds one seated passenger slot to a claimed inventory seat.
type SeatAssignment struct {
	PaxIndex     int    `json:"pax_index" bson:"pax_index"`
	FlightSeatID string `json:"flight_seat_id" bson:"flight_seat_id"`
	SeatNumber   string `json:"seat_number" bson:"seat_number"`
	Price        int64  `json:"price" bson:"price"`
}

// Segment is one direction of travel inside a session.
type Segment struct {
	Direction        string           `json:"direction" bson:"direction"`
	FlightScheduleID string           `json:"flight_schedule_id" bson:"flight_schedule_id"`
	SeatClassID      string           `json:"seat_class_id" bson:"seat_class_id"`
	SeatClassCode    string           `json:"seat_class_code" bson:"seat_class_code"`
	SeatAssignments  []SeatAssignment `json:"seat_assignments" bson:"seat_assignments"`
	Fare             PriceSnapshot    `json:"fare" bson:"fare"`
	SeatTotal        int64            `json:"seat_total" bson:"seat_total"`
}

// AssignmentFor returns the segment's assignment for a passenger slot, if any.
func (s *Segment) AssignmentFor(paxIndex int) *SeatAssignment {
	for i := range s.SeatAssignments {
		if s.SeatAssignments[i].PaxIndex == paxIndex {
			return &s.SeatAssignments[i]
		}
	}
	return nil
}

// BookingSession is the aggregate root of one booking attempt. The raw session
// secret is handed to the client once at creation; only its SHA-256 hex digest
// is stored.
type BookingSession struct {
	ID             string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PublicID       string          `json:"public_id" bson:"public_id" validate:"required,uuid4"`
	OwnerType      string          `json:"owner_type" bson:"owner_type" validate:"required,oneof=ACCOUNT GUEST"`
	AccountID      string          `json:"account_id,omitempty" bson:"account_id,omitempty" validate:"required_if=OwnerType ACCOUNT,excluded_if=OwnerType GUEST"`
	GuestID        string          `json:"guest_id,omitempty" bson:"guest_id,omitempty" validate:"required_if=OwnerType GUEST,excluded_if=OwnerType ACCOUNT"`
	SecretHash     string          `json:"-" bson:"secret_hash" validate:"required,len=64,hexadecimal"`
	TripType       string          `json:"trip_type" bson:"trip_type" validate:"required,oneof=ONE_WAY ROUND_TRIP"`
	Segments       []Segment       `json:"segments" bson:"segments" validate:"required,min=1,max=2"`
	Passengers     PassengerCounts `json:"passengers" bson:"passengers" validate:"required"`
	GrandTotal     PriceSnapshot   `json:"grand_total" bson:"grand_total"`
	Status         string          `json:"status" bson:"status" validate:"required,oneof=ACTIVE HOLDING PAYMENT_PENDING CONFIRMED CANCELLED EXPIRED"`
	ExpiresAt      time.Time       `json:"expires_at" bson:"expires_at" validate:"required"`
	LastActivityAt time.Time       `json:"last_activity_at" bson:"last_activity_at"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty" validate:"omitempty,max=100"`
	CreatedIP      string          `json:"-" bson:"created_ip,omitempty"`
	UserAgent      string          `json:"-" bson:"user_agent,omitempty"`
	Deleted        bool            `json:"-" bson:"deleted"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Expired reports whether the session deadline has passed.
func (s *BookingSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Terminal reports whether the session is in a terminal status.
func (s *BookingSession) Terminal() bool {
	return IsTerminalSessionStatus(s.Status)
}

// SegmentByDirection returns the segment travelling the given direction, if any.
func (s *BookingSession) SegmentByDirection(direction string) *Segment {
	for i := range s.Segments {
		if s.Segments[i].Direction == direction {
			return &s.Segments[i]
		}
	}
	return nil
}

// HeldSeatCount counts seat assignments across all segments.
func (s *BookingSession) HeldSeatCount() int {
	n := 0
	for i := range s.Segments {
		n += len(s.Segments[i].SeatAssignments)
	}
	return n
}

// FullySeated reports whether every seated passenger has an assignment on
// every segment, the precondition for checkout.
func (s *BookingSession) FullySeated() bool {
	for i := range s.Segments {
		if len(s.Segments[i].SeatAssignments) != s.Passengers.Seated() {
			return false
		}
	}
	return true
}
