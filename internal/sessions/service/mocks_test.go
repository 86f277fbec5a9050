package service

import (
	"context"
	"time"

	mongotx "skyseat/pkg/db/mongo"
	"skyseat/pkg/kafka"
	"skyseat/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockSessionRepo struct {
	CreateFn                   func(ctx context.Context, session *model.BookingSession) error
	FindByPublicIDFn           func(ctx context.Context, publicID string) (*model.BookingSession, error)
	FindLiveByIdempotencyKeyFn func(ctx context.Context, ownerType, accountID, guestID, key string, now time.Time) (*model.BookingSession, error)
	UpdateFn                   func(ctx context.Context, session *model.BookingSession) error
	TransitionStatusFn         func(ctx context.Context, id string, fromStatuses []string, to string, now time.Time) (bool, error)
	FindExpiredLiveFn          func(ctx context.Context, now time.Time, limit int) ([]*model.BookingSession, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.BookingSession) error {
	return m.CreateFn(ctx, session)
}

func (m *mockSessionRepo) FindByPublicID(ctx context.Context, publicID string) (*model.BookingSession, error) {
	return m.FindByPublicIDFn(ctx, publicID)
}

func (m *mockSessionRepo) FindLiveByIdempotencyKey(ctx context.Context, ownerType, accountID, guestID, key string, now time.Time) (*model.BookingSession, error) {
	return m.FindLiveByIdempotencyKeyFn(ctx, ownerType, accountID, guestID, key, now)
}

func (m *mockSessionRepo) Update(ctx context.Context, session *model.BookingSession) error {
	return m.UpdateFn(ctx, session)
}

func (m *mockSessionRepo) TransitionStatus(ctx context.Context, id string, fromStatuses []string, to string, now time.Time) (bool, error) {
	return m.TransitionStatusFn(ctx, id, fromStatuses, to, now)
}

func (m *mockSessionRepo) FindExpiredLive(ctx context.Context, now time.Time, limit int) ([]*model.BookingSession, error) {
	return m.FindExpiredLiveFn(ctx, now, limit)
}

func (m *mockSessionRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockSeatRepo struct {
	FindByIDFn        func(ctx context.Context, id string) (*model.FlightSeat, error)
	FindByScheduleFn  func(ctx context.Context, scheduleID string, layoutIDs []string) ([]*model.FlightSeat, error)
	ClaimFn           func(ctx context.Context, seatID, sessionID string, now, until time.Time) (*model.FlightSeat, error)
	ReleaseFn         func(ctx context.Context, seatID, sessionID string) (bool, error)
	ReleaseExpiredFn  func(ctx context.Context, scheduleID string, now time.Time) (int64, error)
	ExtendHoldsFn     func(ctx context.Context, sessionID string, until time.Time) (int64, error)
	BookAllHeldFn     func(ctx context.Context, sessionID, bookingID string, now time.Time) (int64, error)
	ReleaseAllHeldFn  func(ctx context.Context, sessionID string) (int64, error)
	CountAvailableFn  func(ctx context.Context, scheduleID string, layoutIDs []string, now time.Time) (int64, error)
	SeedForScheduleFn func(ctx context.Context, scheduleID string, layouts []*model.SeatLayout) (int64, error)
}

func (m *mockSeatRepo) FindByID(ctx context.Context, id string) (*model.FlightSeat, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockSeatRepo) FindBySchedule(ctx context.Context, scheduleID string, layoutIDs []string) ([]*model.FlightSeat, error) {
	return m.FindByScheduleFn(ctx, scheduleID, layoutIDs)
}

func (m *mockSeatRepo) Claim(ctx context.Context, seatID, sessionID string, now, until time.Time) (*model.FlightSeat, error) {
	return m.ClaimFn(ctx, seatID, sessionID, now, until)
}

func (m *mockSeatRepo) Release(ctx context.Context, seatID, sessionID string) (bool, error) {
	return m.ReleaseFn(ctx, seatID, sessionID)
}

func (m *mockSeatRepo) ReleaseExpired(ctx context.Context, scheduleID string, now time.Time) (int64, error) {
	return m.ReleaseExpiredFn(ctx, scheduleID, now)
}

func (m *mockSeatRepo) ExtendHolds(ctx context.Context, sessionID string, until time.Time) (int64, error) {
	return m.ExtendHoldsFn(ctx, sessionID, until)
}

func (m *mockSeatRepo) BookAllHeld(ctx context.Context, sessionID, bookingID string, now time.Time) (int64, error) {
	return m.BookAllHeldFn(ctx, sessionID, bookingID, now)
}

func (m *mockSeatRepo) ReleaseAllHeld(ctx context.Context, sessionID string) (int64, error) {
	return m.ReleaseAllHeldFn(ctx, sessionID)
}

func (m *mockSeatRepo) CountAvailable(ctx context.Context, scheduleID string, layoutIDs []string, now time.Time) (int64, error) {
	return m.CountAvailableFn(ctx, scheduleID, layoutIDs, now)
}

func (m *mockSeatRepo) SeedForSchedule(ctx context.Context, scheduleID string, layouts []*model.SeatLayout) (int64, error) {
	return m.SeedForScheduleFn(ctx, scheduleID, layouts)
}

func (m *mockSeatRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockRefRepo struct {
	FindSeatClassByIDFn  func(ctx context.Context, id string) (*model.SeatClass, error)
	ResolveSeatClassFn   func(ctx context.Context, key string) (*model.SeatClass, error)
	ListSeatClassesFn    func(ctx context.Context) ([]*model.SeatClass, error)
	FindScheduleByIDFn   func(ctx context.Context, id string) (*model.FlightSchedule, error)
	SearchSchedulesFn    func(ctx context.Context, dep, arr string, date time.Time, limit int, offset int64) ([]*model.FlightSchedule, error)
	FindFareFn           func(ctx context.Context, scheduleID, seatClassID string) (*model.FlightFare, error)
	FindSeatTypeByIDFn   func(ctx context.Context, id string) (*model.SeatType, error)
	ListSeatTypesFn      func(ctx context.Context, seatClassID string) ([]*model.SeatType, error)
	FindLayoutByIDFn     func(ctx context.Context, id string) (*model.SeatLayout, error)
	ListLayoutsFn        func(ctx context.Context, airplaneID, seatClassID string) ([]*model.SeatLayout, error)
	ListPaymentMethodsFn func(ctx context.Context) ([]*model.PaymentMethod, error)
	FindFlightByIDFn     func(ctx context.Context, id string) (*model.Flight, error)
	FindAirlineByIDFn    func(ctx context.Context, id string) (*model.Airline, error)
	FindAirportByIDFn    func(ctx context.Context, id string) (*model.Airport, error)
}

func (m *mockRefRepo) FindSeatClassByID(ctx context.Context, id string) (*model.SeatClass, error) {
	return m.FindSeatClassByIDFn(ctx, id)
}

func (m *mockRefRepo) ResolveSeatClass(ctx context.Context, key string) (*model.SeatClass, error) {
	return m.ResolveSeatClassFn(ctx, key)
}

func (m *mockRefRepo) ListSeatClasses(ctx context.Context) ([]*model.SeatClass, error) {
	return m.ListSeatClassesFn(ctx)
}

func (m *mockRefRepo) FindScheduleByID(ctx context.Context, id string) (*model.FlightSchedule, error) {
	return m.FindScheduleByIDFn(ctx, id)
}

func (m *mockRefRepo) SearchSchedules(ctx context.Context, dep, arr string, date time.Time, limit int, offset int64) ([]*model.FlightSchedule, error) {
	return m.SearchSchedulesFn(ctx, dep, arr, date, limit, offset)
}

func (m *mockRefRepo) FindFare(ctx context.Context, scheduleID, seatClassID string) (*model.FlightFare, error) {
	return m.FindFareFn(ctx, scheduleID, seatClassID)
}

func (m *mockRefRepo) FindSeatTypeByID(ctx context.Context, id string) (*model.SeatType, error) {
	return m.FindSeatTypeByIDFn(ctx, id)
}

func (m *mockRefRepo) ListSeatTypes(ctx context.Context, seatClassID string) ([]*model.SeatType, error) {
	return m.ListSeatTypesFn(ctx, seatClassID)
}

func (m *mockRefRepo) FindLayoutByID(ctx context.Context, id string) (*model.SeatLayout, error) {
	return m.FindLayoutByIDFn(ctx, id)
}

func (m *mockRefRepo) ListLayouts(ctx context.Context, airplaneID, seatClassID string) ([]*model.SeatLayout, error) {
	return m.ListLayoutsFn(ctx, airplaneID, seatClassID)
}

func (m *mockRefRepo) ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error) {
	return m.ListPaymentMethodsFn(ctx)
}

func (m *mockRefRepo) FindFlightByID(ctx context.Context, id string) (*model.Flight, error) {
	return m.FindFlightByIDFn(ctx, id)
}

func (m *mockRefRepo) FindAirlineByID(ctx context.Context, id string) (*model.Airline, error) {
	return m.FindAirlineByIDFn(ctx, id)
}

func (m *mockRefRepo) FindAirportByID(ctx context.Context, id string) (*model.Airport, error) {
	return m.FindAirportByIDFn(ctx, id)
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Get(ctx context.Context, scheduleID, seatClassID string) (*model.SeatMap, bool) {
	return nil, false
}

func (c *recordingCache) Set(ctx context.Context, scheduleID, seatClassID string, seatMap *model.SeatMap) {
}

func (c *recordingCache) InvalidateSchedule(ctx context.Context, scheduleID string) {
	c.invalidated = append(c.invalidated, scheduleID)
}

type recordingPublisher struct {
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		types = append(types, m.GetEventType())
	}
	return types
}
