package service

import (
	"context"
	"testing"
	"time"

	"skyseat/internal/auth"
	seatserrors "skyseat/internal/seats/errors"
	sessionserrors "skyseat/internal/sessions/errors"
	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/kafka"
	"skyseat/pkg/model"
)

const (
	sessionMongoID = "665f1f77bcf86cd799439071"
	sessionPublic  = "5f0c1a6e-3b7d-4c2f-8e1a-2b9d0c7f4e5a"
	guestID        = "b7a9e6a2-3f5d-4d0a-9c4e-9d2f1e8a7b6c"
	rawSecret      = "the-raw-secret"
	seatID         = "665f1f77bcf86cd799439081"
	otherSeatID    = "665f1f77bcf86cd799439082"
	layoutID       = "665f1f77bcf86cd799439091"
	seatTypeID     = "665f1f77bcf86cd7994390a1"
)

func liveGuestSession() *model.BookingSession {
	return &model.BookingSession{
		ID:         sessionMongoID,
		PublicID:   sessionPublic,
		OwnerType:  model.OwnerTypeGuest,
		GuestID:    guestID,
		SecretHash: auth.HashSessionSecret(rawSecret),
		TripType:   model.TripTypeOneWay,
		Segments: []model.Segment{
			{
				Direction:        model.DirectionOutbound,
				FlightScheduleID: scheduleID,
				SeatClassID:      seatClassID,
				SeatClassCode:    "E",
				SeatAssignments:  []model.SeatAssignment{},
				Fare:             model.PriceSnapshot{Currency: "VND", Adult: 1_150_000, Total: 2_300_000},
			},
		},
		Passengers: model.PassengerCounts{Adults: 2},
		GrandTotal: model.PriceSnapshot{Currency: "VND", Total: 2_300_000},
		Status:     model.SessionStatusActive,
		ExpiresAt:  time.Now().UTC().Add(10 * time.Minute),
	}
}

func guestIdentity() auth.Identity {
	return auth.Identity{GuestID: guestID, SessionSecret: rawSecret}
}

func sessionRepoFor(session *model.BookingSession) (*mockSessionRepo, *int) {
	updates := 0
	repo := &mockSessionRepo{
		FindByPublicIDFn: func(ctx context.Context, publicID string) (*model.BookingSession, error) {
			if publicID != session.PublicID {
				return nil, sessionserrors.ErrNotFound
			}
			return session, nil
		},
		UpdateFn: func(ctx context.Context, s *model.BookingSession) error {
			updates++
			return nil
		},
	}
	return repo, &updates
}

// claimableSeatRepo hands out seats on the session's schedule and records the
// hold deadlines it was asked to extend to.
type claimState struct {
	claimedSeat   string
	claimedUntil  time.Time
	extendedUntil time.Time
	released      []string
}

func claimableSeatRepo(state *claimState) *mockSeatRepo {
	return &mockSeatRepo{
		ExtendHoldsFn: func(ctx context.Context, sessionID string, until time.Time) (int64, error) {
			state.extendedUntil = until
			return 0, nil
		},
		ClaimFn: func(ctx context.Context, id, sessionID string, now, until time.Time) (*model.FlightSeat, error) {
			state.claimedSeat = id
			state.claimedUntil = until
			return &model.FlightSeat{
				ID:               id,
				FlightScheduleID: scheduleID,
				SeatLayoutID:     layoutID,
				Status:           model.SeatStatusHeld,
				PriceAdjustment:  50_000,
				HeldBySessionID:  sessionID,
			}, nil
		},
		ReleaseFn: func(ctx context.Context, id, sessionID string) (bool, error) {
			state.released = append(state.released, id)
			return true, nil
		},
	}
}

func layoutRefRepo() *mockRefRepo {
	m := happyRefRepo()
	m.FindLayoutByIDFn = func(ctx context.Context, id string) (*model.SeatLayout, error) {
		return &model.SeatLayout{
			ID:          id,
			AirplaneID:  airplaneID,
			SeatClassID: seatClassID,
			SeatTypeID:  seatTypeID,
			SeatRow:     12,
			SeatColumn:  "C",
		}, nil
	}
	m.FindSeatTypeByIDFn = func(ctx context.Context, id string) (*model.SeatType, error) {
		return &model.SeatType{ID: id, SeatClassID: seatClassID, Code: "STANDARD", BasePrice: 150_000}, nil
	}
	return m
}

func TestAssignSeat(t *testing.T) {
	session := liveGuestSession()
	repo, updates := sessionRepoFor(session)
	state := &claimState{}
	producer := &recordingPublisher{}
	svc, mapCache := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), producer)

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: seatID}
	got, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)
	if err != nil {
		t.Fatalf("AssignSeat() error = %v", err)
	}

	if state.claimedSeat != seatID {
		t.Errorf("claimed seat = %s, expected %s", state.claimedSeat, seatID)
	}
	if !state.claimedUntil.Equal(got.ExpiresAt) {
		t.Errorf("hold deadline %v and session expiry %v must move in lock-step", state.claimedUntil, got.ExpiresAt)
	}
	if !state.extendedUntil.Equal(got.ExpiresAt) {
		t.Errorf("sibling holds extended to %v, expected the new expiry %v", state.extendedUntil, got.ExpiresAt)
	}

	seg := got.SegmentByDirection(model.DirectionOutbound)
	assignment := seg.AssignmentFor(0)
	if assignment == nil {
		t.Fatal("slot 0 has no assignment after a successful claim")
	}
	if assignment.SeatNumber != "12C" {
		t.Errorf("seat number = %s, expected 12C", assignment.SeatNumber)
	}
	if assignment.Price != 200_000 {
		t.Errorf("seat price = %d, expected base 150000 plus adjustment 50000", assignment.Price)
	}
	if seg.SeatTotal != 200_000 {
		t.Errorf("segment seat total = %d, expected 200000", seg.SeatTotal)
	}

	if got.Status != model.SessionStatusHolding {
		t.Errorf("status = %s, expected %s once a seat is held", got.Status, model.SessionStatusHolding)
	}
	if *updates != 1 {
		t.Errorf("session updated %d times, expected 1", *updates)
	}
	if len(mapCache.invalidated) != 1 || mapCache.invalidated[0] != scheduleID {
		t.Errorf("invalidated schedules = %v, expected [%s]", mapCache.invalidated, scheduleID)
	}
	if types := producer.eventTypes(); len(types) != 1 || types[0] != kafka.EventSeatHeld {
		t.Errorf("published events = %v, expected a single %s", types, kafka.EventSeatHeld)
	}
}

func TestAssignSeatConflict(t *testing.T) {
	session := liveGuestSession()
	repo, updates := sessionRepoFor(session)
	state := &claimState{}
	seatRepo := claimableSeatRepo(state)
	seatRepo.ClaimFn = func(ctx context.Context, id, sessionID string, now, until time.Time) (*model.FlightSeat, error) {
		return nil, seatserrors.ErrSeatConflict
	}
	producer := &recordingPublisher{}
	svc, mapCache := newTestService(repo, seatRepo, layoutRefRepo(), producer)

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: seatID}
	_, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s", appErr.Code, apperrors.CodeConflict)
	}
	if appErr.StatusCode() != 409 {
		t.Errorf("status = %d, expected 409", appErr.StatusCode())
	}
	if *updates != 0 {
		t.Error("a lost claim race must not rewrite the session")
	}
	if len(mapCache.invalidated) != 0 {
		t.Error("a failed assignment must not invalidate the seat map cache")
	}
	if len(producer.messages) != 0 {
		t.Error("a failed assignment must not publish events")
	}
}

func TestAssignSeatDuplicateWithinSegment(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 1, FlightSeatID: seatID, SeatNumber: "12C", Price: 150_000},
	}
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)
	state := &claimState{}
	svc, _ := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), &recordingPublisher{})

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: seatID}
	_, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s", appErr.Code, apperrors.CodeConflict)
	}
	if state.claimedSeat != "" {
		t.Error("the duplicate guard must fire before any claim is attempted")
	}
}

func TestAssignSeatReplacesPreviousSeat(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID, SeatNumber: "12C", Price: 150_000},
	}
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)
	state := &claimState{}
	svc, _ := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), &recordingPublisher{})

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: otherSeatID}
	got, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)
	if err != nil {
		t.Fatalf("AssignSeat() error = %v", err)
	}

	if len(state.released) != 1 || state.released[0] != seatID {
		t.Errorf("released seats = %v, expected the previous seat %s", state.released, seatID)
	}
	if state.claimedSeat != otherSeatID {
		t.Errorf("claimed seat = %s, expected %s", state.claimedSeat, otherSeatID)
	}

	seg := got.SegmentByDirection(model.DirectionOutbound)
	if len(seg.SeatAssignments) != 1 {
		t.Fatalf("assignments = %d, expected the replacement to keep one", len(seg.SeatAssignments))
	}
	if seg.AssignmentFor(0).FlightSeatID != otherSeatID {
		t.Errorf("slot 0 holds %s, expected %s", seg.AssignmentFor(0).FlightSeatID, otherSeatID)
	}
}

func TestAssignSeatClearsSlot(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID, SeatNumber: "12C", Price: 150_000},
	}
	session.Segments[0].SeatTotal = 150_000
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)
	state := &claimState{}
	producer := &recordingPublisher{}
	svc, _ := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), producer)

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0}
	got, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)
	if err != nil {
		t.Fatalf("AssignSeat() error = %v", err)
	}

	if len(state.released) != 1 || state.released[0] != seatID {
		t.Errorf("released seats = %v, expected [%s]", state.released, seatID)
	}
	seg := got.SegmentByDirection(model.DirectionOutbound)
	if len(seg.SeatAssignments) != 0 {
		t.Errorf("assignments = %d, expected none after clearing", len(seg.SeatAssignments))
	}
	if seg.SeatTotal != 0 {
		t.Errorf("seat total = %d, expected 0 after clearing", seg.SeatTotal)
	}
	if got.Status != model.SessionStatusActive {
		t.Errorf("status = %s, expected %s with no seats held", got.Status, model.SessionStatusActive)
	}
	if types := producer.eventTypes(); len(types) != 1 || types[0] != kafka.EventSeatReleased {
		t.Errorf("published events = %v, expected a single %s", types, kafka.EventSeatReleased)
	}
}

func TestAssignSeatClearEmptySlotIsNoop(t *testing.T) {
	session := liveGuestSession()
	before := session.ExpiresAt
	repo, updates := sessionRepoFor(session)
	state := &claimState{}
	producer := &recordingPublisher{}
	svc, _ := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), producer)

	req := &model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 1}
	got, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), req)
	if err != nil {
		t.Fatalf("AssignSeat() error = %v", err)
	}

	if len(state.released) != 0 {
		t.Errorf("released seats = %v, expected none", state.released)
	}
	if len(producer.messages) != 0 {
		t.Errorf("published %d events, expected none for a no-op clear", len(producer.messages))
	}
	if !got.ExpiresAt.After(before) {
		t.Error("even a no-op clear keeps the session alive by extending expiry")
	}
	if *updates != 1 {
		t.Errorf("session updated %d times, expected 1", *updates)
	}
}

func TestAssignSeatRejectsBadTargets(t *testing.T) {
	tests := []struct {
		name         string
		req          model.AssignSeatRequest
		seatSchedule string
		layoutClass  string
		expectedCode string
		description  string
	}{
		{
			name:         "pax index beyond the seated party",
			req:          model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 2, FlightSeatID: seatID},
			seatSchedule: scheduleID,
			layoutClass:  seatClassID,
			expectedCode: apperrors.CodeInvalidInput,
			description:  "two seated passengers occupy slots 0 and 1 only",
		},
		{
			name:         "direction the session does not travel",
			req:          model.AssignSeatRequest{Direction: model.DirectionInbound, PaxIndex: 0, FlightSeatID: seatID},
			seatSchedule: scheduleID,
			layoutClass:  seatClassID,
			expectedCode: apperrors.CodeInvalidInput,
			description:  "a one-way session has no return segment",
		},
		{
			name:         "seat on a different flight",
			req:          model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: seatID},
			seatSchedule: returnSched,
			layoutClass:  seatClassID,
			expectedCode: apperrors.CodeInvalidInput,
			description:  "the claimed seat must sit on the segment's schedule",
		},
		{
			name:         "seat outside the booked cabin",
			req:          model.AssignSeatRequest{Direction: model.DirectionOutbound, PaxIndex: 0, FlightSeatID: seatID},
			seatSchedule: scheduleID,
			layoutClass:  "665f1f77bcf86cd7994390ff",
			expectedCode: apperrors.CodeInvalidInput,
			description:  "a business seat cannot satisfy an economy segment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := liveGuestSession()
			repo, updates := sessionRepoFor(session)
			state := &claimState{}
			seatRepo := claimableSeatRepo(state)
			seatRepo.ClaimFn = func(ctx context.Context, id, sessionID string, now, until time.Time) (*model.FlightSeat, error) {
				return &model.FlightSeat{
					ID: id, FlightScheduleID: tt.seatSchedule, SeatLayoutID: layoutID,
					Status: model.SeatStatusHeld, HeldBySessionID: sessionID,
				}, nil
			}
			refRepo := layoutRefRepo()
			refRepo.FindLayoutByIDFn = func(ctx context.Context, id string) (*model.SeatLayout, error) {
				return &model.SeatLayout{ID: id, AirplaneID: airplaneID, SeatClassID: tt.layoutClass, SeatTypeID: seatTypeID, SeatRow: 1, SeatColumn: "A"}, nil
			}
			svc, _ := newTestService(repo, seatRepo, refRepo, &recordingPublisher{})

			_, err := svc.AssignSeat(context.Background(), sessionPublic, guestIdentity(), &tt.req)
			if code := apperrors.AsAppError(err).Code; code != tt.expectedCode {
				t.Errorf("code = %s, expected %s: %s", code, tt.expectedCode, tt.description)
			}
			if *updates != 0 {
				t.Errorf("session updated %d times, expected the transaction to abort: %s", *updates, tt.description)
			}
		})
	}
}

func TestCheckout(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
		{PaxIndex: 1, FlightSeatID: otherSeatID},
	}
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)
	state := &claimState{}
	producer := &recordingPublisher{}
	svc, _ := newTestService(repo, claimableSeatRepo(state), layoutRefRepo(), producer)

	got, err := svc.Checkout(context.Background(), sessionPublic, guestIdentity())
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if got.Status != model.SessionStatusPaymentPending {
		t.Errorf("status = %s, expected %s", got.Status, model.SessionStatusPaymentPending)
	}
	if !state.extendedUntil.Equal(got.ExpiresAt) {
		t.Errorf("holds extended to %v, expected the new expiry %v", state.extendedUntil, got.ExpiresAt)
	}
	if types := producer.eventTypes(); len(types) != 1 || types[0] != kafka.EventSessionCheckout {
		t.Errorf("published events = %v, expected a single %s", types, kafka.EventSessionCheckout)
	}
}

func TestCheckoutRequiresFullSeating(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
	}
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)
	svc, _ := newTestService(repo, claimableSeatRepo(&claimState{}), layoutRefRepo(), &recordingPublisher{})

	_, err := svc.Checkout(context.Background(), sessionPublic, guestIdentity())
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s with one of two passengers seated", code, apperrors.CodeConflict)
	}
}

func TestCheckoutRequiresActiveStatus(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
		{PaxIndex: 1, FlightSeatID: otherSeatID},
	}
	session.Status = model.SessionStatusPaymentPending
	repo, _ := sessionRepoFor(session)
	svc, _ := newTestService(repo, claimableSeatRepo(&claimState{}), layoutRefRepo(), &recordingPublisher{})

	_, err := svc.Checkout(context.Background(), sessionPublic, guestIdentity())
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s for a repeated checkout", code, apperrors.CodeConflict)
	}
}

func TestConfirm(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
		{PaxIndex: 1, FlightSeatID: otherSeatID},
	}
	session.Status = model.SessionStatusPaymentPending
	repo, _ := sessionRepoFor(session)

	var bookedSession, bookedID string
	seatRepo := claimableSeatRepo(&claimState{})
	seatRepo.BookAllHeldFn = func(ctx context.Context, sessionID, bookingID string, now time.Time) (int64, error) {
		bookedSession = sessionID
		bookedID = bookingID
		return 2, nil
	}
	producer := &recordingPublisher{}
	svc, mapCache := newTestService(repo, seatRepo, layoutRefRepo(), producer)

	got, err := svc.Confirm(context.Background(), sessionPublic, guestIdentity())
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if got.Status != model.SessionStatusConfirmed {
		t.Errorf("status = %s, expected %s", got.Status, model.SessionStatusConfirmed)
	}
	if bookedSession != sessionMongoID {
		t.Errorf("booked holds of session %s, expected %s", bookedSession, sessionMongoID)
	}
	if bookedID == "" {
		t.Error("confirmation must mint a booking id")
	}
	if len(mapCache.invalidated) != 1 || mapCache.invalidated[0] != scheduleID {
		t.Errorf("invalidated schedules = %v, expected [%s]", mapCache.invalidated, scheduleID)
	}
	if types := producer.eventTypes(); len(types) != 1 || types[0] != kafka.EventSessionConfirmed {
		t.Errorf("published events = %v, expected a single %s", types, kafka.EventSessionConfirmed)
	}
}

func TestConfirmAbortsOnHoldMismatch(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
		{PaxIndex: 1, FlightSeatID: otherSeatID},
	}
	session.Status = model.SessionStatusPaymentPending
	repo, updates := sessionRepoFor(session)

	seatRepo := claimableSeatRepo(&claimState{})
	seatRepo.BookAllHeldFn = func(ctx context.Context, sessionID, bookingID string, now time.Time) (int64, error) {
		return 1, nil
	}
	svc, _ := newTestService(repo, seatRepo, layoutRefRepo(), &recordingPublisher{})

	_, err := svc.Confirm(context.Background(), sessionPublic, guestIdentity())
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s when a hold lapsed before confirmation", code, apperrors.CodeConflict)
	}
	if *updates != 0 {
		t.Error("a partial booking must abort without rewriting the session")
	}
}

func TestConfirmRequiresPaymentPending(t *testing.T) {
	session := liveGuestSession()
	repo, _ := sessionRepoFor(session)
	svc, _ := newTestService(repo, claimableSeatRepo(&claimState{}), layoutRefRepo(), &recordingPublisher{})

	_, err := svc.Confirm(context.Background(), sessionPublic, guestIdentity())
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("code = %s, expected %s for an unpaid session", code, apperrors.CodeConflict)
	}
}

func TestCancel(t *testing.T) {
	session := liveGuestSession()
	session.Segments[0].SeatAssignments = []model.SeatAssignment{
		{PaxIndex: 0, FlightSeatID: seatID},
	}
	session.Status = model.SessionStatusHolding
	repo, _ := sessionRepoFor(session)

	var releasedSession string
	seatRepo := claimableSeatRepo(&claimState{})
	seatRepo.ReleaseAllHeldFn = func(ctx context.Context, sessionID string) (int64, error) {
		releasedSession = sessionID
		return 1, nil
	}
	producer := &recordingPublisher{}
	svc, mapCache := newTestService(repo, seatRepo, layoutRefRepo(), producer)

	got, err := svc.Cancel(context.Background(), sessionPublic, guestIdentity())
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if got.Status != model.SessionStatusCancelled {
		t.Errorf("status = %s, expected %s", got.Status, model.SessionStatusCancelled)
	}
	if releasedSession != sessionMongoID {
		t.Errorf("released holds of session %s, expected %s", releasedSession, sessionMongoID)
	}
	if len(mapCache.invalidated) != 1 {
		t.Errorf("invalidated schedules = %v, expected the cancelled segment's schedule", mapCache.invalidated)
	}
	if types := producer.eventTypes(); len(types) != 1 || types[0] != kafka.EventSessionCancelled {
		t.Errorf("published events = %v, expected a single %s", types, kafka.EventSessionCancelled)
	}
}

func TestCancelTerminalSessionIsGone(t *testing.T) {
	session := liveGuestSession()
	session.Status = model.SessionStatusConfirmed
	repo, _ := sessionRepoFor(session)
	svc, _ := newTestService(repo, claimableSeatRepo(&claimState{}), layoutRefRepo(), &recordingPublisher{})

	_, err := svc.Cancel(context.Background(), sessionPublic, guestIdentity())
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeExpired {
		t.Errorf("code = %s, expected %s for a confirmed session", appErr.Code, apperrors.CodeExpired)
	}
	if appErr.StatusCode() != 410 {
		t.Errorf("status = %d, expected 410", appErr.StatusCode())
	}
}
