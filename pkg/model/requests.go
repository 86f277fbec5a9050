package model

// CreateSessionSegment is one requested direction of travel.
type CreateSessionSegment struct {
	Direction        string `json:"direction" validate:"required,oneof=OUTBOUND INBOUND"`
	FlightScheduleID string `json:"flight_schedule_id" validate:"required,mongodb"`
	SeatClass        string `json:"seat_class" validate:"required,min=1,max=50"`
}

// CreateSessionRequest is the payload for opening a booking session.
type CreateSessionRequest struct {
	TripType       string                 `json:"trip_type" validate:"required,oneof=ONE_WAY ROUND_TRIP"`
	Passengers     PassengerCounts        `json:"passengers" validate:"required"`
	Segments       []CreateSessionSegment `json:"segments" validate:"required,min=1,max=2,dive"`
	IdempotencyKey string                 `json:"idempotency_key,omitempty" validate:"omitempty,min=8,max=100"`
}

// AssignSeatRequest assigns, replaces or clears one passenger slot's seat on
// one segment. An empty flight_seat_id clears the slot.
type AssignSeatRequest struct {
	Direction    string `json:"direction" validate:"required,oneof=OUTBOUND INBOUND"`
	PaxIndex     int    `json:"pax_index" validate:"min=0,max=17"`
	FlightSeatID string `json:"flight_seat_id,omitempty" validate:"omitempty,mongodb"`
}
