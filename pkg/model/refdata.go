package model

import (
	"time"
)

// Statuses shared by reference-data entities.
const (
	RefStatusActive   = "active"
	RefStatusInactive = "inactive"
)

// FlightSchedule lifecycle statuses.
const (
	ScheduleStatusDraft     = "draft"
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusDelayed   = "delayed"
	ScheduleStatusCancelled = "cancelled"
	ScheduleStatusCompleted = "completed"
)

type SeatClass struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ClassName string    `json:"class_name" bson:"class_name" validate:"required,min=2,max=50"`
	ClassCode string    `json:"class_code" bson:"class_code" validate:"required,uppercase,min=1,max=2"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SeatType describes a purchasable seat category inside a class,
// e.g. standard, preferred, exit row. Unique per (seat_class_id, code).
type SeatType struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SeatClassID string    `json:"seat_class_id" bson:"seat_class_id" validate:"required,mongodb"`
	Code        string    `json:"code" bson:"code" validate:"required,uppercase,min=2,max=10"`
	Label       string    `json:"label" bson:"label" validate:"required,min=2,max=50"`
	Color       string    `json:"color" bson:"color" validate:"required,hexcolor"`
	BasePrice   int64     `json:"base_price" bson:"base_price" validate:"gte=0"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Deleted     bool      `json:"-" bson:"deleted"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SeatLayout is one physical seat position on an airplane.
// Unique per (airplane_id, seat_row, seat_column); seat number is row+column.
type SeatLayout struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AirplaneID  string `json:"airplane_id" bson:"airplane_id" validate:"required,mongodb"`
	SeatClassID string `json:"seat_class_id" bson:"seat_class_id" validate:"required,mongodb"`
	SeatTypeID  string `json:"seat_type_id" bson:"seat_type_id" validate:"required,mongodb"`
	SeatRow     int    `json:"seat_row" bson:"seat_row" validate:"required,min=1"`
	SeatColumn  string `json:"seat_column" bson:"seat_column" validate:"required,uppercase,min=1,max=2"`
	IsWindow    bool   `json:"is_window" bson:"is_window"`
	IsAisle     bool   `json:"is_aisle" bson:"is_aisle"`
	IsExitRow   bool   `json:"is_exit_row" bson:"is_exit_row"`
	Deleted     bool   `json:"-" bson:"deleted"`
}

// SeatNumber renders the layout's seat number, e.g. "12C".
func (l *SeatLayout) SeatNumber() string {
	return formatSeatNumber(l.SeatRow, l.SeatColumn)
}

type FlightSchedule struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightID      string    `json:"flight_id" bson:"flight_id" validate:"required,mongodb"`
	AirplaneID    string    `json:"airplane_id" bson:"airplane_id" validate:"required,mongodb"`
	DepartureTime time.Time `json:"departure_time" bson:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" bson:"arrival_time" validate:"required,gtfield=DepartureTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=draft scheduled delayed cancelled completed"`
	Deleted       bool      `json:"-" bson:"deleted"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Bookable reports whether the schedule accepts new sessions and seat holds.
func (s *FlightSchedule) Bookable() bool {
	return !s.Deleted && (s.Status == ScheduleStatusScheduled || s.Status == ScheduleStatusDelayed)
}

// FlightFare is the fare snapshot source for one schedule and class.
// Unique per (flight_schedule_id, seat_class_id).
type FlightFare struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightScheduleID string    `json:"flight_schedule_id" bson:"flight_schedule_id" validate:"required,mongodb"`
	SeatClassID      string    `json:"seat_class_id" bson:"seat_class_id" validate:"required,mongodb"`
	Currency         string    `json:"currency" bson:"currency" validate:"required,len=3,uppercase"`
	BasePrice        int64     `json:"base_price" bson:"base_price" validate:"gte=0"`
	Tax              int64     `json:"tax" bson:"tax" validate:"gte=0"`
	ServiceFee       int64     `json:"service_fee" bson:"service_fee" validate:"gte=0"`
	Status           string    `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Deleted          bool      `json:"-" bson:"deleted"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type PaymentMethod struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code    string `json:"code" bson:"code" validate:"required,uppercase,min=2,max=20"`
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Status  string `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Deleted bool   `json:"-" bson:"deleted"`
}

type Airline struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Code    string `json:"code" bson:"code" validate:"required,uppercase,len=2"`
	Deleted bool   `json:"-" bson:"deleted"`
}

type Airport struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=150"`
	City    string `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Code    string `json:"code" bson:"code" validate:"required,uppercase,len=3"`
	Deleted bool   `json:"-" bson:"deleted"`
}

type Airplane struct {
	ID               string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AirlineID        string `json:"airline_id" bson:"airline_id" validate:"required,mongodb"`
	Model            string `json:"model" bson:"model" validate:"required,min=2,max=100"`
	RegistrationCode string `json:"registration_code" bson:"registration_code" validate:"required,min=2,max=20"`
	Deleted          bool   `json:"-" bson:"deleted"`
}

type Flight struct {
	ID                 string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AirlineID          string `json:"airline_id" bson:"airline_id" validate:"required,mongodb"`
	FlightNumber       string `json:"flight_number" bson:"flight_number" validate:"required,min=3,max=8"`
	DepartureAirportID string `json:"departure_airport_id" bson:"departure_airport_id" validate:"required,mongodb"`
	ArrivalAirportID   string `json:"arrival_airport_id" bson:"arrival_airport_id" validate:"required,mongodb"`
	Deleted            bool   `json:"-" bson:"deleted"`
}
