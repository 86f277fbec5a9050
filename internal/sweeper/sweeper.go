package sweeper

import (
	"context"
	"time"

	seatsrepo "skyseat/internal/seats/repository"
	sessionsrepo "skyseat/internal/sessions/repository"
	"skyseat/pkg/config"
	"skyseat/pkg/kafka"
	"skyseat/pkg/model"
)

// Expiry is enforced lazily on the read and mutation paths; the sweeper is
// the periodic backstop that reaps sessions and holds nobody touched again.
const sweepBatchSize = 100

// EventPublisher is the producer-side surface the sweeper needs; satisfied
// by kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Sweeper struct {
	sessionRepo sessionsrepo.SessionRepository
	seatRepo    seatsrepo.FlightSeatRepository
	producer    EventPublisher
	cfg         *config.Config
}

func New(
	sessionRepo sessionsrepo.SessionRepository,
	seatRepo seatsrepo.FlightSeatRepository,
	producer EventPublisher,
	cfg *config.Config,
) *Sweeper {
	return &Sweeper{
		sessionRepo: sessionRepo,
		seatRepo:    seatRepo,
		producer:    producer,
		cfg:         cfg,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.cfg.Log.Info("Sweeper started", "interval", s.cfg.SweepInterval)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cfg.Log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.cfg.Log.Error("Sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce releases every expired hold system-wide and marks expired live
// sessions EXPIRED, publishing a lifecycle event per reaped session.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	now := time.Now().UTC()

	released, err := s.seatRepo.ReleaseExpired(ctx, "", now)
	if err != nil {
		return err
	}

	expired := 0
	for {
		sessions, err := s.sessionRepo.FindExpiredLive(ctx, now, sweepBatchSize)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			break
		}

		progressed := 0
		for _, session := range sessions {
			// Holds normally share the session deadline and are gone by the
			// bulk release above; this covers any straggler.
			if _, err := s.seatRepo.ReleaseAllHeld(ctx, session.ID); err != nil {
				s.cfg.Log.Warn("Failed to release holds of expired session",
					"public_id", session.PublicID,
					"error", err,
				)
			}

			transitioned, err := s.sessionRepo.TransitionStatus(ctx, session.ID, model.LiveSessionStatuses(), model.SessionStatusExpired, now)
			if err != nil {
				s.cfg.Log.Warn("Failed to expire session", "public_id", session.PublicID, "error", err)
				continue
			}
			if !transitioned {
				// Someone confirmed or cancelled it since we listed it;
				// either way it left the live set.
				progressed++
				continue
			}

			expired++
			progressed++
			session.Status = model.SessionStatusExpired
			s.publishExpired(ctx, session)
		}

		// A batch that moved nothing would be refetched verbatim when the
		// transitions keep failing; stop and let the next tick retry.
		if progressed == 0 {
			break
		}
		if len(sessions) < sweepBatchSize {
			break
		}
	}

	if released > 0 || expired > 0 {
		s.cfg.Log.Info("Sweep completed", "holds_released", released, "sessions_expired", expired)
	}
	return nil
}

func (s *Sweeper) publishExpired(ctx context.Context, session *model.BookingSession) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(session.PublicID).
		WithEventType(kafka.EventSessionExpired).
		WithSource("skyseat-sweeper").
		WithSchemaVersion("1").
		WithValue(map[string]any{
			"public_id":   session.PublicID,
			"owner_type":  session.OwnerType,
			"status":      session.Status,
			"expired_at":  session.ExpiresAt,
			"occurred_at": time.Now().UTC(),
		}).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish session expired event",
			"public_id", session.PublicID,
			"error", err,
		)
	}
}
