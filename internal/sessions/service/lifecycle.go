package service

import (
	"context"
	"errors"
	"time"

	"skyseat/internal/auth"
	seatserrors "skyseat/internal/seats/errors"
	sessionserrors "skyseat/internal/sessions/errors"
	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/kafka"
	"skyseat/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignSeat assigns, replaces or clears one passenger slot's seat on one
// segment. The whole mutation runs inside a single storage transaction: the
// session expiry is extended and propagated to every sibling hold first, then
// the seat change itself happens as a conditional claim or release, then the
// session document is rewritten. Any error aborts the transaction, so a
// claimed seat is never left behind by a failed assignment.
func (s *sessionService) AssignSeat(ctx context.Context, publicID string, identity auth.Identity, req *model.AssignSeatRequest) (*model.BookingSession, error) {
	if err := s.validator.ValidateSeatAssignment(req); err != nil {
		return nil, asValidationError(err)
	}

	now := time.Now().UTC()
	if _, err := s.loadAndAuthorize(ctx, publicID, identity, now); err != nil {
		return nil, err
	}

	var (
		session    *model.BookingSession
		scheduleID string
		eventType  string
	)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		session, err = s.loadAndAuthorize(sessCtx, publicID, identity, now)
		if err != nil {
			return err
		}

		if req.PaxIndex >= session.Passengers.Seated() {
			return apperrors.InvalidInput("pax_index is out of range for this session")
		}

		segment := session.SegmentByDirection(req.Direction)
		if segment == nil {
			return apperrors.InvalidInput("Session has no " + req.Direction + " segment")
		}
		scheduleID = segment.FlightScheduleID

		newExpiry := now.Add(s.cfg.SessionTTL)

		// Extend sibling holds before touching the target seat so no hold
		// owned by this session expires mid-assignment.
		if _, err := s.seatRepo.ExtendHolds(sessCtx, session.ID, newExpiry); err != nil {
			return apperrors.Internal("Failed to extend seat holds", err)
		}

		existing := segment.AssignmentFor(req.PaxIndex)

		if req.FlightSeatID == "" {
			if existing != nil {
				if _, err := s.seatRepo.Release(sessCtx, existing.FlightSeatID, session.ID); err != nil {
					return apperrors.Internal("Failed to release seat", err)
				}
				removeAssignment(segment, req.PaxIndex)
				eventType = kafka.EventSeatReleased
			}
			// Clearing an empty slot is an idempotent no-op.
		} else if existing == nil || existing.FlightSeatID != req.FlightSeatID {
			for _, a := range segment.SeatAssignments {
				if a.FlightSeatID == req.FlightSeatID && a.PaxIndex != req.PaxIndex {
					return apperrors.Conflict(sessionserrors.ErrDuplicateSeat.Error())
				}
			}

			if existing != nil {
				if _, err := s.seatRepo.Release(sessCtx, existing.FlightSeatID, session.ID); err != nil {
					return apperrors.Internal("Failed to release previous seat", err)
				}
				removeAssignment(segment, req.PaxIndex)
			}

			seat, err := s.seatRepo.Claim(sessCtx, req.FlightSeatID, session.ID, now, newExpiry)
			if err != nil {
				switch {
				case errors.Is(err, seatserrors.ErrSeatConflict):
					return apperrors.Conflict("Seat is no longer available")
				case errors.Is(err, seatserrors.ErrNotFound):
					return apperrors.NotFoundWithID("Seat", req.FlightSeatID)
				case errors.Is(err, seatserrors.ErrInvalidID):
					return apperrors.InvalidInput("Invalid seat ID: " + req.FlightSeatID)
				default:
					return apperrors.Internal("Failed to claim seat", err)
				}
			}

			if seat.FlightScheduleID != segment.FlightScheduleID {
				return apperrors.InvalidInput("Seat does not belong to this segment's flight")
			}

			layout, err := s.refRepo.FindLayoutByID(sessCtx, seat.SeatLayoutID)
			if err != nil {
				return apperrors.Internal("Failed to load seat layout", err)
			}
			if layout.SeatClassID != segment.SeatClassID {
				return apperrors.InvalidInput("Seat is outside the booked cabin class")
			}

			seatType, err := s.refRepo.FindSeatTypeByID(sessCtx, layout.SeatTypeID)
			if err != nil {
				return apperrors.Internal("Failed to load seat type", err)
			}

			segment.SeatAssignments = append(segment.SeatAssignments, model.SeatAssignment{
				PaxIndex:     req.PaxIndex,
				FlightSeatID: seat.ID,
				SeatNumber:   layout.SeatNumber(),
				Price:        seatType.BasePrice + seat.PriceAdjustment,
			})
			eventType = kafka.EventSeatHeld
		}
		// Re-selecting the already-held seat just refreshes the expiry.

		recomputeSeatTotal(segment)
		session.ExpiresAt = newExpiry
		session.LastActivityAt = now
		if session.HeldSeatCount() > 0 {
			if session.Status == model.SessionStatusActive {
				session.Status = model.SessionStatusHolding
			}
		} else if session.Status == model.SessionStatusHolding {
			session.Status = model.SessionStatusActive
		}

		if err := s.repo.Update(sessCtx, session); err != nil {
			return apperrors.Internal("Failed to update booking session", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Seat assignment failed",
			"public_id", publicID,
			"direction", req.Direction,
			"pax_index", req.PaxIndex,
			"error", err,
		)
		return nil, err
	}

	s.mapCache.InvalidateSchedule(ctx, scheduleID)
	if eventType != "" {
		s.publishEvent(ctx, eventType, session)
	}

	s.cfg.Log.Info("Seat assignment applied",
		"public_id", session.PublicID,
		"direction", req.Direction,
		"pax_index", req.PaxIndex,
		"held_seats", session.HeldSeatCount(),
		"status", session.Status,
	)
	return session, nil
}

// Checkout moves a fully seated session into PAYMENT_PENDING and buys the
// caller one more TTL window to complete payment.
func (s *sessionService) Checkout(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error) {
	now := time.Now().UTC()
	if _, err := s.loadAndAuthorize(ctx, publicID, identity, now); err != nil {
		return nil, err
	}

	var session *model.BookingSession
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		session, err = s.loadAndAuthorize(sessCtx, publicID, identity, now)
		if err != nil {
			return err
		}

		if session.Status != model.SessionStatusActive && session.Status != model.SessionStatusHolding {
			return apperrors.Conflict("Checkout requires an active session")
		}
		if !session.FullySeated() {
			return apperrors.Conflict("Every passenger needs a seat on every segment before checkout")
		}

		newExpiry := now.Add(s.cfg.SessionTTL)
		if _, err := s.seatRepo.ExtendHolds(sessCtx, session.ID, newExpiry); err != nil {
			return apperrors.Internal("Failed to extend seat holds", err)
		}

		session.Status = model.SessionStatusPaymentPending
		session.ExpiresAt = newExpiry
		session.LastActivityAt = now
		if err := s.repo.Update(sessCtx, session); err != nil {
			return apperrors.Internal("Failed to update booking session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, kafka.EventSessionCheckout, session)
	s.cfg.Log.Info("Booking session entered checkout", "public_id", session.PublicID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Confirm finalizes a paid session: every held seat flips to booked and the
// session reaches its happy terminal state. Payment capture itself happens in
// an upstream collaborator; this is the post-payment state transition.
func (s *sessionService) Confirm(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error) {
	now := time.Now().UTC()
	if _, err := s.loadAndAuthorize(ctx, publicID, identity, now); err != nil {
		return nil, err
	}

	var session *model.BookingSession
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		session, err = s.loadAndAuthorize(sessCtx, publicID, identity, now)
		if err != nil {
			return err
		}

		if session.Status != model.SessionStatusPaymentPending {
			return apperrors.Conflict("Only a session awaiting payment can be confirmed")
		}

		bookingID := primitive.NewObjectID().Hex()
		booked, err := s.seatRepo.BookAllHeld(sessCtx, session.ID, bookingID, now)
		if err != nil {
			return apperrors.Internal("Failed to book held seats", err)
		}
		if booked != int64(session.HeldSeatCount()) {
			return apperrors.Conflict("Seat holds changed during confirmation")
		}

		session.Status = model.SessionStatusConfirmed
		session.LastActivityAt = now
		if err := s.repo.Update(sessCtx, session); err != nil {
			return apperrors.Internal("Failed to update booking session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range session.Segments {
		s.mapCache.InvalidateSchedule(ctx, session.Segments[i].FlightScheduleID)
	}
	s.publishEvent(ctx, kafka.EventSessionConfirmed, session)
	s.cfg.Log.Info("Booking session confirmed",
		"public_id", session.PublicID,
		"seats", session.HeldSeatCount(),
		"grand_total", session.GrandTotal.Total,
	)
	return session, nil
}

// Cancel voids any live session and frees its held seats.
func (s *sessionService) Cancel(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error) {
	now := time.Now().UTC()
	if _, err := s.loadAndAuthorize(ctx, publicID, identity, now); err != nil {
		return nil, err
	}

	var session *model.BookingSession
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		session, err = s.loadAndAuthorize(sessCtx, publicID, identity, now)
		if err != nil {
			return err
		}

		if _, err := s.seatRepo.ReleaseAllHeld(sessCtx, session.ID); err != nil {
			return apperrors.Internal("Failed to release held seats", err)
		}

		session.Status = model.SessionStatusCancelled
		session.LastActivityAt = now
		if err := s.repo.Update(sessCtx, session); err != nil {
			return apperrors.Internal("Failed to update booking session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range session.Segments {
		s.mapCache.InvalidateSchedule(ctx, session.Segments[i].FlightScheduleID)
	}
	s.publishEvent(ctx, kafka.EventSessionCancelled, session)
	s.cfg.Log.Info("Booking session cancelled", "public_id", session.PublicID)
	return session, nil
}

func removeAssignment(segment *model.Segment, paxIndex int) {
	kept := segment.SeatAssignments[:0]
	for _, a := range segment.SeatAssignments {
		if a.PaxIndex != paxIndex {
			kept = append(kept, a)
		}
	}
	segment.SeatAssignments = kept
}

func recomputeSeatTotal(segment *model.Segment) {
	var total int64
	for _, a := range segment.SeatAssignments {
		total += a.Price
	}
	segment.SeatTotal = total
}
