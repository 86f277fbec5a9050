package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionserrors "skyseat/internal/sessions/errors"
	"skyseat/pkg/config"
	mongotx "skyseat/pkg/db/mongo"
	"skyseat/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "BookingSessions"
)

type mongoSessionRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.BookingSession) error
	FindByPublicID(ctx context.Context, publicID string) (*model.BookingSession, error)

	// FindLiveByIdempotencyKey scopes the idempotency short-circuit to one
	// owner and one key, over live unexpired sessions only.
	FindLiveByIdempotencyKey(ctx context.Context, ownerType string, accountID string, guestID string, key string, now time.Time) (*model.BookingSession, error)

	// Update persists segments, totals, status, expiry and activity fields of
	// an already-loaded session.
	Update(ctx context.Context, session *model.BookingSession) error

	// TransitionStatus moves a session between statuses only when it is
	// currently in one of fromStatuses. Reports whether a transition happened.
	TransitionStatus(ctx context.Context, id string, fromStatuses []string, to string, now time.Time) (bool, error)

	// FindExpiredLive returns live sessions whose deadline has passed, for
	// the sweeper to expire.
	FindExpiredLive(ctx context.Context, now time.Time, limit int) ([]*model.BookingSession, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
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
func (r *mongoSessionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSessionRepository) Create(ctx context.Context, session *model.BookingSession) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create booking session: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSessionRepository) FindByPublicID(ctx context.Context, publicID string) (*model.BookingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"public_id": publicID, "deleted": false}

	var session model.BookingSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sessionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking session: %w", err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) FindLiveByIdempotencyKey(ctx context.Context, ownerType string, accountID string, guestID string, key string, now time.Time) (*model.BookingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"idempotency_key": key,
		"owner_type":      ownerType,
		"deleted":         false,
		"status":          bson.M{"$in": model.LiveSessionStatuses()},
		"expires_at":      bson.M{"$gt": now},
	}
	switch ownerType {
	case model.OwnerTypeAccount:
		filter["account_id"] = accountID
	case model.OwnerTypeGuest:
		filter["guest_id"] = guestID
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var session model.BookingSession
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sessionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session by idempotency key: %w", err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) Update(ctx context.Context, session *model.BookingSession) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(session.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, session.ID)
	}

	session.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"segments":         session.Segments,
			"grand_total":      session.GrandTotal,
			"status":           session.Status,
			"expires_at":       session.ExpiresAt,
			"last_activity_at": session.LastActivityAt,
			"updated_at":       session.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "deleted": false}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking session: %w", err)
	}
	if result.MatchedCount == 0 {
		return sessionserrors.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) TransitionStatus(ctx context.Context, id string, fromStatuses []string, to string, now time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":     objectID,
		"deleted": false,
		"status":  bson.M{"$in": fromStatuses},
	}
	update := bson.M{
		"$set": bson.M{
			"status":           to,
			"last_activity_at": now,
			"updated_at":       now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition session status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoSessionRepository) FindExpiredLive(ctx context.Context, now time.Time, limit int) ([]*model.BookingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"deleted":    false,
		"status":     bson.M{"$in": model.LiveSessionStatuses()},
		"expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "expires_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.BookingSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode expired sessions: %w", err)
	}
	return sessions, nil
}

func (r *mongoSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
