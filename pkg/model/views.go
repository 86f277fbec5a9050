package model

import (
	"time"
)

// Seat map cell statuses as presented to clients.
const (
	SeatCellAvailable = "AVAILABLE"
	SeatCellHeld      = "HELD"
	SeatCellBooked    = "BOOKED"
)

// SeatMap is the renderable seat map for one schedule and cabin class.
type SeatMap struct {
	FlightScheduleID string           `json:"flight_schedule_id"`
	SeatClass        SeatClassInfo    `json:"seat_class"`
	Legend           []SeatTypeLegend `json:"legend"`
	Columns          []string         `json:"columns"`
	AislesAfter      []int            `json:"aisles_after"`
	Rows             []SeatMapRow     `json:"rows"`
	AvailableCount   int              `json:"available_count"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

type SeatClassInfo struct {
	ID        string `json:"id"`
	ClassName string `json:"class_name"`
	ClassCode string `json:"class_code"`
}

// SeatTypeLegend is one legend entry, keyed by seat-type code.
type SeatTypeLegend struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	BasePrice int64  `json:"base_price"`
}

type SeatMapRow struct {
	RowNumber int           `json:"row_number"`
	Seats     []SeatMapCell `json:"seats"`
}

type SeatMapCell struct {
	FlightSeatID string `json:"flight_seat_id,omitempty"`
	SeatNumber   string `json:"seat_number"`
	Column       string `json:"column"`
	SeatType     string `json:"seat_type"`
	Status       string `json:"status"`
	Price        int64  `json:"price"`
	IsWindow     bool   `json:"is_window"`
	IsAisle      bool   `json:"is_aisle"`
	IsExitRow    bool   `json:"is_exit_row"`
}

// SessionView is the denormalized read model of a booking session, composed
// from the session document plus reference-data lookups.
type SessionView struct {
	PublicID       string          `json:"public_id"`
	OwnerType      string          `json:"owner_type"`
	TripType       string          `json:"trip_type"`
	Status         string          `json:"status"`
	Passengers     PassengerCounts `json:"passengers"`
	Segments       []SegmentView   `json:"segments"`
	GrandTotal     PriceSnapshot   `json:"grand_total"`
	SeatTotal      int64           `json:"seat_total"`
	ExpiresAt      time.Time       `json:"expires_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SegmentView struct {
	Direction        string           `json:"direction"`
	FlightScheduleID string           `json:"flight_schedule_id"`
	FlightNumber     string           `json:"flight_number"`
	AirlineName      string           `json:"airline_name"`
	DepartureAirport AirportInfo      `json:"departure_airport"`
	ArrivalAirport   AirportInfo      `json:"arrival_airport"`
	DepartureTime    time.Time        `json:"departure_time"`
	ArrivalTime      time.Time        `json:"arrival_time"`
	SeatClass        SeatClassInfo    `json:"seat_class"`
	SeatAssignments  []SeatAssignment `json:"seat_assignments"`
	Fare             PriceSnapshot    `json:"fare"`
	SeatTotal        int64            `json:"seat_total"`
}

type AirportInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

// ScheduleListing is a flight-schedule search result with remaining capacity.
type ScheduleListing struct {
	Schedule       FlightSchedule `json:"schedule"`
	FlightNumber   string         `json:"flight_number"`
	AvailableSeats int64          `json:"available_seats"`
}
