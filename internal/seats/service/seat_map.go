package service

import (
	"context"
	"errors"
	"sort"
	"time"

	refdataerrors "skyseat/internal/refdata/errors"
	refdatarepo "skyseat/internal/refdata/repository"
	"skyseat/internal/seats/cache"
	"skyseat/internal/seats/repository"
	"skyseat/pkg/config"
	apperrors "skyseat/pkg/errors"
	"skyseat/pkg/model"
)

type SeatMapService interface {
	// BuildSeatMap assembles the renderable seat map for one schedule and
	// cabin class. The seat class accepts an ID, a class code or an alias
	// name such as PREMIUM_ECONOMY.
	BuildSeatMap(ctx context.Context, scheduleID string, seatClassKey string) (*model.SeatMap, error)

	// CountAvailable reports claimable capacity for a schedule, optionally
	// narrowed to one cabin class.
	CountAvailable(ctx context.Context, scheduleID string, seatClassID string) (int64, error)

	// OpenInventory seeds one inventory row per layout seat for a schedule.
	OpenInventory(ctx context.Context, scheduleID string) (int64, error)
}

type seatMapService struct {
	seatRepo repository.FlightSeatRepository
	refRepo  refdatarepo.RefDataRepository
	mapCache cache.SeatMapCache
	cfg      *config.Config
}

func NewSeatMapService(
	seatRepo repository.FlightSeatRepository,
	refRepo refdatarepo.RefDataRepository,
	mapCache cache.SeatMapCache,
	cfg *config.Config,
) SeatMapService {
	return &seatMapService{
		seatRepo: seatRepo,
		refRepo:  refRepo,
		mapCache: mapCache,
		cfg:      cfg,
	}
}

// aislesForColumnCount maps the distinct column count of a cabin to the
// column indexes an aisle follows. Cabins outside the table get a single
// center aisle.
var aislesForColumnCount = map[int][]int{
	4:  {2},
	5:  {1, 4},
	6:  {3},
	7:  {3, 5},
	8:  {2, 6},
	9:  {3, 6},
	10: {3, 7},
}

func aislePositions(columnCount int) []int {
	if positions, ok := aislesForColumnCount[columnCount]; ok {
		return positions
	}
	if columnCount <= 1 {
		return nil
	}
	return []int{columnCount / 2}
}

func (s *seatMapService) BuildSeatMap(ctx context.Context, scheduleID string, seatClassKey string) (*model.SeatMap, error) {
	if scheduleID == "" {
		return nil, apperrors.InvalidInput("flightScheduleId is required")
	}
	if seatClassKey == "" {
		return nil, apperrors.InvalidInput("seatClass is required")
	}

	schedule, err := s.refRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, s.mapRefError(err, "Flight schedule", scheduleID)
	}
	if !schedule.Bookable() {
		return nil, apperrors.InvalidInput("Flight schedule is not open for booking")
	}

	class, err := s.refRepo.ResolveSeatClass(ctx, seatClassKey)
	if err != nil {
		if errors.Is(err, refdataerrors.ErrUnknownSeatClass) {
			return nil, apperrors.InvalidInput("Unknown seat class: " + seatClassKey)
		}
		return nil, s.mapRefError(err, "Seat class", seatClassKey)
	}

	if cached, ok := s.mapCache.Get(ctx, scheduleID, class.ID); ok {
		return cached, nil
	}

	layouts, err := s.refRepo.ListLayouts(ctx, schedule.AirplaneID, class.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load seat layouts", err)
	}
	if len(layouts) == 0 {
		return nil, apperrors.NotFound("Seat map")
	}

	seatTypes, err := s.refRepo.ListSeatTypes(ctx, class.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load seat types", err)
	}

	now := time.Now().UTC()

	// Lazy sweep so the map never renders stale holds.
	if _, err := s.seatRepo.ReleaseExpired(ctx, scheduleID, now); err != nil {
		return nil, apperrors.Internal("Failed to release expired holds", err)
	}

	layoutIDs := make([]string, 0, len(layouts))
	for _, layout := range layouts {
		layoutIDs = append(layoutIDs, layout.ID)
	}

	seats, err := s.seatRepo.FindBySchedule(ctx, scheduleID, layoutIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load seat inventory", err)
	}

	seatMap := assembleSeatMap(schedule, class, layouts, seatTypes, seats, now)
	s.mapCache.Set(ctx, scheduleID, class.ID, seatMap)

	s.cfg.Log.Info("Seat map assembled",
		"schedule_id", scheduleID,
		"seat_class_id", class.ID,
		"rows", len(seatMap.Rows),
		"available", seatMap.AvailableCount,
	)
	return seatMap, nil
}

func assembleSeatMap(
	schedule *model.FlightSchedule,
	class *model.SeatClass,
	layouts []*model.SeatLayout,
	seatTypes []*model.SeatType,
	seats []*model.FlightSeat,
	now time.Time,
) *model.SeatMap {
	typeByID := make(map[string]*model.SeatType, len(seatTypes))
	legend := make([]model.SeatTypeLegend, 0, len(seatTypes))
	for _, st := range seatTypes {
		typeByID[st.ID] = st
		legend = append(legend, model.SeatTypeLegend{
			Code:      st.Code,
			Label:     st.Label,
			Color:     st.Color,
			BasePrice: st.BasePrice,
		})
	}

	seatByLayout := make(map[string]*model.FlightSeat, len(seats))
	for _, seat := range seats {
		seatByLayout[seat.SeatLayoutID] = seat
	}

	rowsByNumber := make(map[int][]model.SeatMapCell)
	columnSet := make(map[string]struct{})
	available := 0

	for _, layout := range layouts {
		columnSet[layout.SeatColumn] = struct{}{}

		cell := model.SeatMapCell{
			SeatNumber: layout.SeatNumber(),
			Column:     layout.SeatColumn,
			IsWindow:   layout.IsWindow,
			IsAisle:    layout.IsAisle,
			IsExitRow:  layout.IsExitRow,
		}

		var basePrice int64
		if st, ok := typeByID[layout.SeatTypeID]; ok {
			cell.SeatType = st.Code
			basePrice = st.BasePrice
		}

		seat, ok := seatByLayout[layout.ID]
		switch {
		case !ok:
			// No inventory row for this layout seat. Selling a seat that was
			// never opened is worse than hiding one, so it renders booked.
			cell.Status = model.SeatCellBooked
			cell.Price = basePrice
		case seat.Status == model.SeatStatusBooked:
			cell.Status = model.SeatCellBooked
			cell.FlightSeatID = seat.ID
			cell.Price = basePrice + seat.PriceAdjustment
		case seat.HoldActive(now):
			cell.Status = model.SeatCellHeld
			cell.FlightSeatID = seat.ID
			cell.Price = basePrice + seat.PriceAdjustment
		default:
			cell.Status = model.SeatCellAvailable
			cell.FlightSeatID = seat.ID
			cell.Price = basePrice + seat.PriceAdjustment
			available++
		}

		rowsByNumber[layout.SeatRow] = append(rowsByNumber[layout.SeatRow], cell)
	}

	rowNumbers := make([]int, 0, len(rowsByNumber))
	for n := range rowsByNumber {
		rowNumbers = append(rowNumbers, n)
	}
	sort.Ints(rowNumbers)

	rows := make([]model.SeatMapRow, 0, len(rowNumbers))
	for _, n := range rowNumbers {
		cells := rowsByNumber[n]
		sort.Slice(cells, func(i, j int) bool { return cells[i].Column < cells[j].Column })
		rows = append(rows, model.SeatMapRow{RowNumber: n, Seats: cells})
	}

	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	return &model.SeatMap{
		FlightScheduleID: schedule.ID,
		SeatClass: model.SeatClassInfo{
			ID:        class.ID,
			ClassName: class.ClassName,
			ClassCode: class.ClassCode,
		},
		Legend:         legend,
		Columns:        columns,
		AislesAfter:    aislePositions(len(columns)),
		Rows:           rows,
		AvailableCount: available,
		GeneratedAt:    now,
	}
}

func (s *seatMapService) CountAvailable(ctx context.Context, scheduleID string, seatClassID string) (int64, error) {
	var layoutIDs []string
	if seatClassID != "" {
		schedule, err := s.refRepo.FindScheduleByID(ctx, scheduleID)
		if err != nil {
			return 0, s.mapRefError(err, "Flight schedule", scheduleID)
		}
		layouts, err := s.refRepo.ListLayouts(ctx, schedule.AirplaneID, seatClassID)
		if err != nil {
			return 0, apperrors.Internal("Failed to load seat layouts", err)
		}
		for _, layout := range layouts {
			layoutIDs = append(layoutIDs, layout.ID)
		}
	}

	count, err := s.seatRepo.CountAvailable(ctx, scheduleID, layoutIDs, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Internal("Failed to count available seats", err)
	}
	return count, nil
}

func (s *seatMapService) OpenInventory(ctx context.Context, scheduleID string) (int64, error) {
	schedule, err := s.refRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return 0, s.mapRefError(err, "Flight schedule", scheduleID)
	}

	layouts, err := s.refRepo.ListLayouts(ctx, schedule.AirplaneID, "")
	if err != nil {
		return 0, apperrors.Internal("Failed to load seat layouts", err)
	}

	seeded, err := s.seatRepo.SeedForSchedule(ctx, scheduleID, layouts)
	if err != nil {
		return 0, apperrors.Internal("Failed to seed seat inventory", err)
	}

	s.cfg.Log.Info("Seat inventory opened", "schedule_id", scheduleID, "seeded", seeded)
	return seeded, nil
}

func (s *seatMapService) mapRefError(err error, entity string, id string) error {
	switch {
	case errors.Is(err, refdataerrors.ErrNotFound):
		return apperrors.NotFoundWithID(entity, id)
	case errors.Is(err, refdataerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + entity + " ID: " + id)
	default:
		return apperrors.Internal("Failed to load "+entity, err)
	}
}
