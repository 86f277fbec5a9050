package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"skyseat/internal/auth"
	refdataerrors "skyseat/internal/refdata/errors"
	refdatarepo "skyseat/internal/refdata/repository"
	"skyseat/internal/seats/cache"
	seatsrepo "skyseat/internal/seats/repository"
	sessionserrors "skyseat/internal/sessions/errors"
	"skyseat/internal/sessions/repository"
	"skyseat/internal/sessions/validator"
	"skyseat/pkg/config"
	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/kafka"
	"skyseat/pkg/model"

	"github.com/google/uuid"
)

// Owner identifies who a new session will belong to. Exactly one of
// AccountID and GuestID is set; the handler decides which from the request's
// bearer token and cookies.
type Owner struct {
	Type      string
	AccountID string
	GuestID   string
	IP        string
	UserAgent string
}

// CreateResult carries the created (or replayed) session plus the raw secret.
// RawSecret is empty on an idempotent replay; the client already holds the
// secret cookie from the first response.
type CreateResult struct {
	Session   *model.BookingSession
	RawSecret string
	Reused    bool
}

// EventPublisher is the producer-side surface this service needs; satisfied
// by kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type SessionService interface {
	Create(ctx context.Context, req *model.CreateSessionRequest, owner Owner) (*CreateResult, error)
	Get(ctx context.Context, publicID string, identity auth.Identity) (*model.SessionView, error)
	AssignSeat(ctx context.Context, publicID string, identity auth.Identity, req *model.AssignSeatRequest) (*model.BookingSession, error)
	Checkout(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error)
	Confirm(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error)
	Cancel(ctx context.Context, publicID string, identity auth.Identity) (*model.BookingSession, error)
}

type sessionService struct {
	repo      repository.SessionRepository
	seatRepo  seatsrepo.FlightSeatRepository
	refRepo   refdatarepo.RefDataRepository
	validator *validator.SessionValidator
	mapCache  cache.SeatMapCache
	producer  EventPublisher
	cfg       *config.Config
}

func NewSessionService(
	repo repository.SessionRepository,
	seatRepo seatsrepo.FlightSeatRepository,
	refRepo refdatarepo.RefDataRepository,
	validator *validator.SessionValidator,
	mapCache cache.SeatMapCache,
	producer EventPublisher,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		repo:      repo,
		seatRepo:  seatRepo,
		refRepo:   refRepo,
		validator: validator,
		mapCache:  mapCache,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *sessionService) Create(ctx context.Context, req *model.CreateSessionRequest, owner Owner) (*CreateResult, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, asValidationError(err)
	}

	now := time.Now().UTC()

	if req.IdempotencyKey != "" {
		existing, err := s.repo.FindLiveByIdempotencyKey(ctx, owner.Type, owner.AccountID, owner.GuestID, req.IdempotencyKey, now)
		if err == nil {
			s.cfg.Log.Info("Booking session creation replayed",
				"public_id", existing.PublicID,
				"idempotency_key", req.IdempotencyKey,
			)
			return &CreateResult{Session: existing, Reused: true}, nil
		}
		if !errors.Is(err, sessionserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to check idempotency key", err)
		}
	}

	segments, grandTotal, err := s.composeItinerary(ctx, req)
	if err != nil {
		return nil, err
	}

	rawSecret, err := newSessionSecret()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate session secret", err)
	}

	session := &model.BookingSession{
		PublicID:       uuid.New().String(),
		OwnerType:      owner.Type,
		AccountID:      owner.AccountID,
		GuestID:        owner.GuestID,
		SecretHash:     auth.HashSessionSecret(rawSecret),
		TripType:       req.TripType,
		Segments:       segments,
		Passengers:     req.Passengers,
		GrandTotal:     grandTotal,
		Status:         model.SessionStatusActive,
		ExpiresAt:      now.Add(s.cfg.SessionTTL),
		LastActivityAt: now,
		IdempotencyKey: req.IdempotencyKey,
		CreatedIP:      owner.IP,
		UserAgent:      owner.UserAgent,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		s.cfg.Log.Error("Failed to create booking session", "error", err)
		return nil, apperrors.Internal("Failed to create booking session", err)
	}

	s.publishEvent(ctx, kafka.EventSessionCreated, session)
	s.cfg.Log.Info("Booking session created",
		"public_id", session.PublicID,
		"owner_type", session.OwnerType,
		"trip_type", session.TripType,
		"grand_total", session.GrandTotal.Total,
		"expires_at", session.ExpiresAt,
	)

	return &CreateResult{Session: session, RawSecret: rawSecret}, nil
}

// composeItinerary resolves each requested segment against reference data and
// snapshots prices. Every resolution miss is a 400 naming the offending
// field; nothing here touches seat inventory.
func (s *sessionService) composeItinerary(ctx context.Context, req *model.CreateSessionRequest) ([]model.Segment, model.PriceSnapshot, error) {
	segments := make([]model.Segment, 0, len(req.Segments))
	grandTotal := model.PriceSnapshot{Currency: s.cfg.Currency}

	for i, segReq := range req.Segments {
		field := fmt.Sprintf("segments[%d]", i)

		schedule, err := s.refRepo.FindScheduleByID(ctx, segReq.FlightScheduleID)
		if err != nil {
			if errors.Is(err, refdataerrors.ErrNotFound) || errors.Is(err, refdataerrors.ErrInvalidID) {
				return nil, grandTotal, apperrors.InvalidInput(field + ".flight_schedule_id: unknown flight schedule")
			}
			return nil, grandTotal, apperrors.Internal("Failed to load flight schedule", err)
		}
		if !schedule.Bookable() {
			return nil, grandTotal, apperrors.InvalidInput(field + ".flight_schedule_id: flight schedule is not open for booking")
		}

		class, err := s.refRepo.ResolveSeatClass(ctx, segReq.SeatClass)
		if err != nil {
			if errors.Is(err, refdataerrors.ErrUnknownSeatClass) || errors.Is(err, refdataerrors.ErrNotFound) {
				return nil, grandTotal, apperrors.InvalidInput(field + ".seat_class: unknown seat class")
			}
			return nil, grandTotal, apperrors.Internal("Failed to resolve seat class", err)
		}

		fare, err := s.refRepo.FindFare(ctx, schedule.ID, class.ID)
		if err != nil {
			if errors.Is(err, refdataerrors.ErrNotFound) {
				return nil, grandTotal, apperrors.InvalidInput(field + ": no fare published for this schedule and seat class")
			}
			return nil, grandTotal, apperrors.Internal("Failed to load fare", err)
		}

		snapshot := fareSnapshot(fare, req.Passengers)
		segments = append(segments, model.Segment{
			Direction:        segReq.Direction,
			FlightScheduleID: schedule.ID,
			SeatClassID:      class.ID,
			SeatClassCode:    class.ClassCode,
			SeatAssignments:  []model.SeatAssignment{},
			Fare:             snapshot,
		})

		// Amount-weighted accumulation: each bucket carries count x unit,
		// not raw unit prices.
		grandTotal.Adult += int64(req.Passengers.Adults) * snapshot.Adult
		grandTotal.Child += int64(req.Passengers.Children) * snapshot.Child
		grandTotal.Infant += int64(req.Passengers.Infants) * snapshot.Infant
		grandTotal.Total += snapshot.Total
		if snapshot.Currency != "" {
			grandTotal.Currency = snapshot.Currency
		}
	}

	return segments, grandTotal, nil
}

func (s *sessionService) Get(ctx context.Context, publicID string, identity auth.Identity) (*model.SessionView, error) {
	session, err := s.loadAndAuthorize(ctx, publicID, identity, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.composeView(ctx, session)
}

// composeView denormalizes the session for the client: schedule, flight,
// airline and airport names per segment, read one by one. The handful of
// point reads is deliberate; no aggregation pipeline.
func (s *sessionService) composeView(ctx context.Context, session *model.BookingSession) (*model.SessionView, error) {
	view := &model.SessionView{
		PublicID:       session.PublicID,
		OwnerType:      session.OwnerType,
		TripType:       session.TripType,
		Status:         session.Status,
		Passengers:     session.Passengers,
		GrandTotal:     session.GrandTotal,
		ExpiresAt:      session.ExpiresAt,
		LastActivityAt: session.LastActivityAt,
		CreatedAt:      session.CreatedAt,
	}

	for i := range session.Segments {
		seg := &session.Segments[i]

		segView := model.SegmentView{
			Direction:        seg.Direction,
			FlightScheduleID: seg.FlightScheduleID,
			SeatAssignments:  seg.SeatAssignments,
			Fare:             seg.Fare,
			SeatTotal:        seg.SeatTotal,
		}

		schedule, err := s.refRepo.FindScheduleByID(ctx, seg.FlightScheduleID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load segment schedule", err)
		}
		segView.DepartureTime = schedule.DepartureTime
		segView.ArrivalTime = schedule.ArrivalTime

		flight, err := s.refRepo.FindFlightByID(ctx, schedule.FlightID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load segment flight", err)
		}
		segView.FlightNumber = flight.FlightNumber

		if airline, err := s.refRepo.FindAirlineByID(ctx, flight.AirlineID); err == nil {
			segView.AirlineName = airline.Name
		}
		if dep, err := s.refRepo.FindAirportByID(ctx, flight.DepartureAirportID); err == nil {
			segView.DepartureAirport = model.AirportInfo{Code: dep.Code, Name: dep.Name, City: dep.City}
		}
		if arr, err := s.refRepo.FindAirportByID(ctx, flight.ArrivalAirportID); err == nil {
			segView.ArrivalAirport = model.AirportInfo{Code: arr.Code, Name: arr.Name, City: arr.City}
		}

		if class, err := s.refRepo.FindSeatClassByID(ctx, seg.SeatClassID); err == nil {
			segView.SeatClass = model.SeatClassInfo{ID: class.ID, ClassName: class.ClassName, ClassCode: class.ClassCode}
		} else {
			segView.SeatClass = model.SeatClassInfo{ID: seg.SeatClassID, ClassCode: seg.SeatClassCode}
		}

		view.Segments = append(view.Segments, segView)
		view.SeatTotal += seg.SeatTotal
	}

	return view, nil
}

// loadAndAuthorize fetches the session and runs the authentication gate.
func (s *sessionService) loadAndAuthorize(ctx context.Context, publicID string, identity auth.Identity, now time.Time) (*model.BookingSession, error) {
	if publicID == "" {
		return nil, apperrors.InvalidInput("Session public ID cannot be empty")
	}

	session, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, sessionserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking session", publicID)
		}
		return nil, apperrors.Internal("Failed to load booking session", err)
	}

	if err := auth.Authorize(session, identity, now); err != nil {
		return nil, err
	}
	return session, nil
}

func newSessionSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Invalid booking session request", details)
	}
	var verr validator.ValidationError
	if errors.As(err, &verr) {
		return apperrors.Validation("Invalid booking session request", map[string]any{verr.Field: verr.Message})
	}
	return apperrors.InvalidInput(err.Error())
}
