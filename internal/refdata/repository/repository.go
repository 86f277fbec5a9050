package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	refdataerrors "skyseat/internal/refdata/errors"
	"skyseat/pkg/config"
	"skyseat/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SeatClassCollection      = "SeatClasses"
	SeatTypeCollection       = "SeatTypes"
	SeatLayoutCollection     = "SeatLayouts"
	FlightScheduleCollection = "FlightSchedules"
	FlightFareCollection     = "FlightFares"
	PaymentMethodCollection  = "PaymentMethods"
	AirlineCollection        = "Airlines"
	AirportCollection        = "Airports"
	AirplaneCollection       = "Airplanes"
	FlightCollection         = "Flights"
)

// seatClassAliases is the closed set of client-facing seat-class keys mapped
// to canonical class names. Keys outside this set only resolve as a class
// code or a raw ID.
var seatClassAliases = map[string]string{
	"ECONOMY":         "Economy",
	"PREMIUM_ECONOMY": "Premium Economy",
	"BUSINESS":        "Business Class",
	"BUSINESS_CLASS":  "Business Class",
	"FIRST":           "First Class",
	"FIRST_CLASS":     "First Class",
}

// ResolveSeatClassAlias maps a client-facing alias to a canonical class name.
func ResolveSeatClassAlias(key string) (string, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), " ", "_"))
	name, ok := seatClassAliases[normalized]
	return name, ok
}

type RefDataRepository interface {
	FindSeatClassByID(ctx context.Context, id string) (*model.SeatClass, error)
	ResolveSeatClass(ctx context.Context, key string) (*model.SeatClass, error)
	ListSeatClasses(ctx context.Context) ([]*model.SeatClass, error)

	FindScheduleByID(ctx context.Context, id string) (*model.FlightSchedule, error)
	SearchSchedules(ctx context.Context, departureAirportCode string, arrivalAirportCode string, date time.Time, limit int, offset int64) ([]*model.FlightSchedule, error)

	FindFare(ctx context.Context, scheduleID string, seatClassID string) (*model.FlightFare, error)

	FindSeatTypeByID(ctx context.Context, id string) (*model.SeatType, error)
	ListSeatTypes(ctx context.Context, seatClassID string) ([]*model.SeatType, error)

	FindLayoutByID(ctx context.Context, id string) (*model.SeatLayout, error)
	ListLayouts(ctx context.Context, airplaneID string, seatClassID string) ([]*model.SeatLayout, error)

	ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error)

	FindFlightByID(ctx context.Context, id string) (*model.Flight, error)
	FindAirlineByID(ctx context.Context, id string) (*model.Airline, error)
	FindAirportByID(ctx context.Context, id string) (*model.Airport, error)
}

type mongoRefDataRepository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMongoRefDataRepository(cfg *config.Config) RefDataRepository {
	return &mongoRefDataRepository{
		cfg: cfg,
		db:  cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function.
func (r *mongoRefDataRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func objectIDFilter(id string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", refdataerrors.ErrInvalidID, id)
	}
	return bson.M{"_id": objectID, "deleted": false}, nil
}

func (r *mongoRefDataRepository) findOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	err := r.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return refdataerrors.ErrNotFound
		}
		return fmt.Errorf("failed to find %s document: %w", collection, err)
	}
	return nil
}

func (r *mongoRefDataRepository) FindSeatClassByID(ctx context.Context, id string) (*model.SeatClass, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}
	filter["status"] = model.RefStatusActive

	var class model.SeatClass
	if err := r.findOne(ctx, SeatClassCollection, filter, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// ResolveSeatClass accepts a raw ID, a 1-2 letter class code, or one of the
// closed alias names and returns the active seat class it denotes.
func (r *mongoRefDataRepository) ResolveSeatClass(ctx context.Context, key string) (*model.SeatClass, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, refdataerrors.ErrUnknownSeatClass
	}

	if _, err := primitive.ObjectIDFromHex(key); err == nil {
		return r.FindSeatClassByID(ctx, key)
	}

	filter := bson.M{"deleted": false, "status": model.RefStatusActive}
	upper := strings.ToUpper(key)
	if len(upper) <= 2 {
		filter["class_code"] = upper
	} else {
		name, ok := ResolveSeatClassAlias(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", refdataerrors.ErrUnknownSeatClass, key)
		}
		filter["class_name"] = name
	}

	var class model.SeatClass
	if err := r.findOne(ctx, SeatClassCollection, filter, &class); err != nil {
		if errors.Is(err, refdataerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", refdataerrors.ErrUnknownSeatClass, key)
		}
		return nil, err
	}
	return &class, nil
}

func (r *mongoRefDataRepository) ListSeatClasses(ctx context.Context) ([]*model.SeatClass, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"deleted": false, "status": model.RefStatusActive}
	opts := options.Find().SetSort(bson.D{{Key: "class_code", Value: 1}})

	cursor, err := r.db.Collection(SeatClassCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat classes: %w", err)
	}
	defer cursor.Close(ctx)

	var classes []*model.SeatClass
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, fmt.Errorf("failed to decode seat classes: %w", err)
	}
	return classes, nil
}

func (r *mongoRefDataRepository) FindScheduleByID(ctx context.Context, id string) (*model.FlightSchedule, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var schedule model.FlightSchedule
	if err := r.findOne(ctx, FlightScheduleCollection, filter, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// SearchSchedules returns bookable schedules flying the given route on the
// given calendar day. Airport codes are resolved first, then flights, then
// schedules; the original data set is small enough that three indexed
// queries beat an aggregation here.
func (r *mongoRefDataRepository) SearchSchedules(ctx context.Context, departureAirportCode string, arrivalAirportCode string, date time.Time, limit int, offset int64) ([]*model.FlightSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	flightFilter := bson.M{"deleted": false}

	if departureAirportCode != "" {
		airport, err := r.findAirportByCode(ctx, departureAirportCode)
		if err != nil {
			return nil, err
		}
		flightFilter["departure_airport_id"] = airport.ID
	}
	if arrivalAirportCode != "" {
		airport, err := r.findAirportByCode(ctx, arrivalAirportCode)
		if err != nil {
			return nil, err
		}
		flightFilter["arrival_airport_id"] = airport.ID
	}

	flightCursor, err := r.db.Collection(FlightCollection).Find(ctx, flightFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to find flights: %w", err)
	}
	defer flightCursor.Close(ctx)

	var flights []*model.Flight
	if err := flightCursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}
	if len(flights) == 0 {
		return nil, nil
	}

	flightIDs := make([]string, 0, len(flights))
	for _, f := range flights {
		flightIDs = append(flightIDs, f.ID)
	}

	scheduleFilter := bson.M{
		"deleted":   false,
		"flight_id": bson.M{"$in": flightIDs},
		"status":    bson.M{"$in": []string{model.ScheduleStatusScheduled, model.ScheduleStatusDelayed}},
	}
	if !date.IsZero() {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		scheduleFilter["departure_time"] = bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.Add(24 * time.Hour),
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "departure_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.db.Collection(FlightScheduleCollection).Find(ctx, scheduleFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.FlightSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoRefDataRepository) findAirportByCode(ctx context.Context, code string) (*model.Airport, error) {
	var airport model.Airport
	filter := bson.M{"code": strings.ToUpper(strings.TrimSpace(code)), "deleted": false}
	if err := r.findOne(ctx, AirportCollection, filter, &airport); err != nil {
		return nil, err
	}
	return &airport, nil
}

func (r *mongoRefDataRepository) FindFare(ctx context.Context, scheduleID string, seatClassID string) (*model.FlightFare, error) {
	filter := bson.M{
		"flight_schedule_id": scheduleID,
		"seat_class_id":      seatClassID,
		"deleted":            false,
		"status":             model.RefStatusActive,
	}

	var fare model.FlightFare
	if err := r.findOne(ctx, FlightFareCollection, filter, &fare); err != nil {
		return nil, err
	}
	return &fare, nil
}

func (r *mongoRefDataRepository) FindSeatTypeByID(ctx context.Context, id string) (*model.SeatType, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}
	filter["status"] = model.RefStatusActive

	var seatType model.SeatType
	if err := r.findOne(ctx, SeatTypeCollection, filter, &seatType); err != nil {
		return nil, err
	}
	return &seatType, nil
}

func (r *mongoRefDataRepository) ListSeatTypes(ctx context.Context, seatClassID string) ([]*model.SeatType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"seat_class_id": seatClassID, "deleted": false, "status": model.RefStatusActive}
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.db.Collection(SeatTypeCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat types: %w", err)
	}
	defer cursor.Close(ctx)

	var seatTypes []*model.SeatType
	if err := cursor.All(ctx, &seatTypes); err != nil {
		return nil, fmt.Errorf("failed to decode seat types: %w", err)
	}
	return seatTypes, nil
}

func (r *mongoRefDataRepository) FindLayoutByID(ctx context.Context, id string) (*model.SeatLayout, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var layout model.SeatLayout
	if err := r.findOne(ctx, SeatLayoutCollection, filter, &layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *mongoRefDataRepository) ListLayouts(ctx context.Context, airplaneID string, seatClassID string) ([]*model.SeatLayout, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"airplane_id": airplaneID, "deleted": false}
	if seatClassID != "" {
		filter["seat_class_id"] = seatClassID
	}
	opts := options.Find().SetSort(bson.D{{Key: "seat_row", Value: 1}, {Key: "seat_column", Value: 1}})

	cursor, err := r.db.Collection(SeatLayoutCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat layouts: %w", err)
	}
	defer cursor.Close(ctx)

	var layouts []*model.SeatLayout
	if err := cursor.All(ctx, &layouts); err != nil {
		return nil, fmt.Errorf("failed to decode seat layouts: %w", err)
	}
	return layouts, nil
}

func (r *mongoRefDataRepository) ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"deleted": false, "status": model.RefStatusActive}
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.db.Collection(PaymentMethodCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer cursor.Close(ctx)

	var methods []*model.PaymentMethod
	if err := cursor.All(ctx, &methods); err != nil {
		return nil, fmt.Errorf("failed to decode payment methods: %w", err)
	}
	return methods, nil
}

func (r *mongoRefDataRepository) FindFlightByID(ctx context.Context, id string) (*model.Flight, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var flight model.Flight
	if err := r.findOne(ctx, FlightCollection, filter, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *mongoRefDataRepository) FindAirlineByID(ctx context.Context, id string) (*model.Airline, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var airline model.Airline
	if err := r.findOne(ctx, AirlineCollection, filter, &airline); err != nil {
		return nil, err
	}
	return &airline, nil
}

func (r *mongoRefDataRepository) FindAirportByID(ctx context.Context, id string) (*model.Airport, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var airport model.Airport
	if err := r.findOne(ctx, AirportCollection, filter, &airport); err != nil {
		return nil, err
	}
	return &airport, nil
}
