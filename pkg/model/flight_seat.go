package model

import (
	"fmt"
	"time"
)

// Flight seat inventory statuses.
const (
	SeatStatusAvailable = "available"
	SeatStatusHeld      = "held"
	SeatStatusBooked    = "booked"
)

// FlightSeat is one sellable seat on one flight schedule.
// Unique per (flight_schedule_id, seat_layout_id).
//
// Invariants: status "held" carries held_by_session_id, held_at and held_until;
// any other status carries none of them. Status "booked" carries booked_at and
// booked_by_booking_id, and a booked seat never transitions back here.
type FlightSeat struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightScheduleID string     `json:"flight_schedule_id" bson:"flight_schedule_id" validate:"required,mongodb"`
	SeatLayoutID     string     `json:"seat_layout_id" bson:"seat_layout_id" validate:"required,mongodb"`
	Status           string     `json:"status" bson:"status" validate:"required,oneof=available held booked"`
	PriceAdjustment  int64      `json:"price_adjustment" bson:"price_adjustment"`
	HeldBySessionID  string     `json:"held_by_session_id,omitempty" bson:"held_by_session_id,omitempty"`
	HeldAt           *time.Time `json:"held_at,omitempty" bson:"held_at,omitempty"`
	HeldUntil        *time.Time `json:"held_until,omitempty" bson:"held_until,omitempty"`
	BookedAt         *time.Time `json:"booked_at,omitempty" bson:"booked_at,omitempty"`
	BookedByID       string     `json:"booked_by_booking_id,omitempty" bson:"booked_by_booking_id,omitempty"`
	Deleted          bool       `json:"-" bson:"deleted"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// HoldActive reports whether the seat is held and the hold deadline has not
// passed. A held seat whose deadline is in the past counts as free capacity
// even before the lazy release sweep rewrites it.
func (s *FlightSeat) HoldActive(now time.Time) bool {
	return s.Status == SeatStatusHeld && s.HeldUntil != nil && s.HeldUntil.After(now)
}

// HeldBy reports whether the seat is currently held by the given session.
func (s *FlightSeat) HeldBy(sessionID string) bool {
	return s.Status == SeatStatusHeld && s.HeldBySessionID == sessionID
}

func formatSeatNumber(row int, column string) string {
	return fmt.Sprintf("%d%s", row, column)
}
