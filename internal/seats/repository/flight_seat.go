package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	seatserrors "skyseat/internal/seats/errors"
	"skyseat/pkg/config"
	mongotx "skyseat/pkg/db/mongo"
	"skyseat/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "FlightSeats"
)

type mongoFlightSeatRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// FlightSeatRepository is the seat inventory store. Every mutation is a
// conditional write; callers never read-check-write across round trips.
type FlightSeatRepository interface {
	FindByID(ctx context.Context, id string) (*model.FlightSeat, error)
	FindBySchedule(ctx context.Context, scheduleID string, layoutIDs []string) ([]*model.FlightSeat, error)

	// Claim atomically takes a seat for a session. A seat is claimable when
	// available, already held by this session, or held by someone whose hold
	// deadline has passed. A zero-match outcome surfaces ErrSeatConflict when
	// the seat exists and ErrNotFound when it does not.
	Claim(ctx context.Context, seatID string, sessionID string, now time.Time, until time.Time) (*model.FlightSeat, error)

	// Release frees a seat only if this session holds it. Releasing a seat
	// the session does not hold reports false with no error, keeping the
	// operation idempotent.
	Release(ctx context.Context, seatID string, sessionID string) (bool, error)

	// ReleaseExpired bulk-resets held seats whose deadline has passed. An
	// empty scheduleID sweeps the whole inventory.
	ReleaseExpired(ctx context.Context, scheduleID string, now time.Time) (int64, error)

	// ExtendHolds pushes the hold deadline of every seat held by the session,
	// keeping seat holds in lock-step with the session expiry.
	ExtendHolds(ctx context.Context, sessionID string, until time.Time) (int64, error)

	BookAllHeld(ctx context.Context, sessionID string, bookingID string, now time.Time) (int64, error)
	ReleaseAllHeld(ctx context.Context, sessionID string) (int64, error)

	// CountAvailable counts claimable seats: available ones plus held ones
	// whose deadline has passed.
	CountAvailable(ctx context.Context, scheduleID string, layoutIDs []string, now time.Time) (int64, error)

	// SeedForSchedule opens inventory for a schedule, one seat per layout.
	// Already-seeded seats are left untouched.
	SeedForSchedule(ctx context.Context, scheduleID string, layouts []*model.SeatLayout) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoFlightSeatRepository(cfg *config.Config) FlightSeatRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoFlightSeatRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as we cannot wrap SessionContext
// without breaking transaction semantics.
func (r *mongoFlightSeatRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoFlightSeatRepository) FindByID(ctx context.Context, id string) (*model.FlightSeat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, id)
	}

	var seat model.FlightSeat
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "deleted": false}).Decode(&seat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, seatserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find flight seat: %w", err)
	}
	return &seat, nil
}

func (r *mongoFlightSeatRepository) FindBySchedule(ctx context.Context, scheduleID string, layoutIDs []string) ([]*model.FlightSeat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"flight_schedule_id": scheduleID, "deleted": false}
	if len(layoutIDs) > 0 {
		filter["seat_layout_id"] = bson.M{"$in": layoutIDs}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find flight seats: %w", err)
	}
	defer cursor.Close(ctx)

	var seats []*model.FlightSeat
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("failed to decode flight seats: %w", err)
	}
	return seats, nil
}

func (r *mongoFlightSeatRepository) Claim(ctx context.Context, seatID string, sessionID string, now time.Time, until time.Time) (*model.FlightSeat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(seatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, seatID)
	}

	filter := bson.M{
		"_id":     objectID,
		"deleted": false,
		"$or": []bson.M{
			{"status": model.SeatStatusAvailable},
			{"status": model.SeatStatusHeld, "held_by_session_id": sessionID},
			{"status": model.SeatStatusHeld, "held_until": bson.M{"$lte": now}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"status":             model.SeatStatusHeld,
			"held_by_session_id": sessionID,
			"held_at":            now,
			"held_until":         until,
			"updated_at":         now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var seat model.FlightSeat
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&seat)
	if err == nil {
		return &seat, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to claim seat: %w", err)
	}

	// Zero match. Look the seat up once to tell a losing race from a
	// nonexistent seat.
	if _, findErr := r.FindByID(ctx, seatID); findErr != nil {
		return nil, findErr
	}
	return nil, seatserrors.ErrSeatConflict
}

func (r *mongoFlightSeatRepository) Release(ctx context.Context, seatID string, sessionID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(seatID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, seatID)
	}

	filter := bson.M{
		"_id":                objectID,
		"deleted":            false,
		"status":             model.SeatStatusHeld,
		"held_by_session_id": sessionID,
	}
	update := releaseUpdate(time.Now().UTC())

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release seat: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoFlightSeatRepository) ReleaseExpired(ctx context.Context, scheduleID string, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"deleted":    false,
		"status":     model.SeatStatusHeld,
		"held_until": bson.M{"$lte": now},
	}
	if scheduleID != "" {
		filter["flight_schedule_id"] = scheduleID
	}

	result, err := r.collection.UpdateMany(ctx, filter, releaseUpdate(now))
	if err != nil {
		return 0, fmt.Errorf("failed to release expired holds: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoFlightSeatRepository) ExtendHolds(ctx context.Context, sessionID string, until time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"deleted":            false,
		"status":             model.SeatStatusHeld,
		"held_by_session_id": sessionID,
	}
	update := bson.M{
		"$set": bson.M{
			"held_until": until,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to extend holds: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoFlightSeatRepository) BookAllHeld(ctx context.Context, sessionID string, bookingID string, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"deleted":            false,
		"status":             model.SeatStatusHeld,
		"held_by_session_id": sessionID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":               model.SeatStatusBooked,
			"booked_at":            now,
			"booked_by_booking_id": bookingID,
			"updated_at":           now,
		},
		"$unset": bson.M{
			"held_by_session_id": "",
			"held_at":            "",
			"held_until":         "",
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to book held seats: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoFlightSeatRepository) ReleaseAllHeld(ctx context.Context, sessionID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"deleted":            false,
		"status":             model.SeatStatusHeld,
		"held_by_session_id": sessionID,
	}

	result, err := r.collection.UpdateMany(ctx, filter, releaseUpdate(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to release held seats: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoFlightSeatRepository) CountAvailable(ctx context.Context, scheduleID string, layoutIDs []string, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"flight_schedule_id": scheduleID,
		"deleted":            false,
		"$or": []bson.M{
			{"status": model.SeatStatusAvailable},
			{"status": model.SeatStatusHeld, "held_until": bson.M{"$lte": now}},
		},
	}
	if len(layoutIDs) > 0 {
		filter["seat_layout_id"] = bson.M{"$in": layoutIDs}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count available seats: %w", err)
	}
	return count, nil
}

func (r *mongoFlightSeatRepository) SeedForSchedule(ctx context.Context, scheduleID string, layouts []*model.SeatLayout) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if len(layouts) == 0 {
		return 0, nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, 0, len(layouts))
	for _, layout := range layouts {
		docs = append(docs, model.FlightSeat{
			FlightScheduleID: scheduleID,
			SeatLayoutID:     layout.ID,
			Status:           model.SeatStatusAvailable,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	opts := options.InsertMany().SetOrdered(false)
	result, err := r.collection.InsertMany(ctx, docs, opts)
	if err != nil {
		// Duplicate keys mean those seats were seeded earlier; the unique
		// (flight_schedule_id, seat_layout_id) index rejects them and the
		// rest insert fine with ordered=false.
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) || !allDuplicateKeys(bulkErr) {
			return 0, fmt.Errorf("failed to seed flight seats: %w", err)
		}
	}
	if result == nil {
		return 0, nil
	}
	return int64(len(result.InsertedIDs)), nil
}

func allDuplicateKeys(bulkErr mongo.BulkWriteException) bool {
	for _, we := range bulkErr.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return len(bulkErr.WriteErrors) > 0
}

// releaseUpdate resets a seat to available and clears hold metadata,
// preserving the held-status invariant.
func releaseUpdate(now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"status":     model.SeatStatusAvailable,
			"updated_at": now,
		},
		"$unset": bson.M{
			"held_by_session_id": "",
			"held_at":            "",
			"held_until":         "",
		},
	}
}

func (r *mongoFlightSeatRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
