package service

import (
	"context"
	"errors"
	"time"

	refdataerrors "skyseat/internal/refdata/errors"
	"skyseat/internal/refdata/repository"
	seatsservice "skyseat/internal/seats/service"
	"skyseat/pkg/config"
	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/model"
)

type RefDataService interface {
	ListSeatClasses(ctx context.Context) ([]*model.SeatClass, error)

	// SearchSchedules finds bookable schedules by route and day, decorated
	// with flight numbers and remaining claimable capacity.
	SearchSchedules(ctx context.Context, departureCode string, arrivalCode string, date time.Time, limit int, offset int64) ([]*model.ScheduleListing, error)

	ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error)
}

type refDataService struct {
	repo     repository.RefDataRepository
	seatMaps seatsservice.SeatMapService
	cfg      *config.Config
}

func NewRefDataService(repo repository.RefDataRepository, seatMaps seatsservice.SeatMapService, cfg *config.Config) RefDataService {
	return &refDataService{
		repo:     repo,
		seatMaps: seatMaps,
		cfg:      cfg,
	}
}

func (s *refDataService) ListSeatClasses(ctx context.Context) ([]*model.SeatClass, error) {
	classes, err := s.repo.ListSeatClasses(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list seat classes", err)
	}
	return classes, nil
}

func (s *refDataService) SearchSchedules(ctx context.Context, departureCode string, arrivalCode string, date time.Time, limit int, offset int64) ([]*model.ScheduleListing, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	schedules, err := s.repo.SearchSchedules(ctx, departureCode, arrivalCode, date, limit, offset)
	if err != nil {
		if errors.Is(err, refdataerrors.ErrNotFound) {
			// Unknown airport code: an empty result, not an error.
			return []*model.ScheduleListing{}, nil
		}
		return nil, apperrors.Internal("Failed to search flight schedules", err)
	}

	listings := make([]*model.ScheduleListing, 0, len(schedules))
	for _, schedule := range schedules {
		listing := &model.ScheduleListing{Schedule: *schedule}

		if flight, err := s.repo.FindFlightByID(ctx, schedule.FlightID); err == nil {
			listing.FlightNumber = flight.FlightNumber
		}

		count, err := s.seatMaps.CountAvailable(ctx, schedule.ID, "")
		if err != nil {
			s.cfg.Log.Warn("Failed to count available seats for listing",
				"schedule_id", schedule.ID,
				"error", err,
			)
		} else {
			listing.AvailableSeats = count
		}

		listings = append(listings, listing)
	}
	return listings, nil
}

func (s *refDataService) ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error) {
	methods, err := s.repo.ListPaymentMethods(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list payment methods", err)
	}
	return methods, nil
}
