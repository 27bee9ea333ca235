package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/ports"
	"github.com/srgjo27/hotel_inventory/internal/platform/metrics"
)

// ReservationService applies multi-date ledger mutations atomically. It is the only
// component that writes inventory counts; everything else goes through it.
type ReservationService struct {
	inventoryRepo ports.InventoryRepository
	cache         *redis.Client
	logger        zerolog.Logger
}

func NewReservationService(inventoryRepo ports.InventoryRepository, cache *redis.Client, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		inventoryRepo: inventoryRepo,
		cache:         cache,
		logger:        logger,
	}
}

func availabilityCacheKey(roomTypeID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", roomTypeID)
}

// Reserve decrements availability and increments sold for every date of the stay, or
// does nothing at all. Rows are locked in ascending date order; all dates are checked
// before any row is mutated.
func (s *ReservationService) Reserve(ctx context.Context, roomTypeID uuid.UUID, stay domain.StayRange, quantity int) ([]time.Time, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	dates, err := stay.Dates()
	if err != nil {
		return nil, err
	}

	err = s.inventoryRepo.WithTx(ctx, func(txCtx context.Context) error {
		days, err := s.inventoryRepo.LockDays(txCtx, roomTypeID, dates)
		if err != nil {
			return err
		}

		if missing := missingDates(dates, days); len(missing) > 0 {
			return &domain.RangeIncompleteError{RoomTypeID: roomTypeID, Missing: missing}
		}

		// Check every date before touching any row, so a failure on the last
		// night leaves the first nights untouched.
		for i := range days {
			day := &days[i]
			if day.StopSell {
				return &domain.StopSellError{RoomTypeID: roomTypeID, Date: day.Date, Requested: quantity}
			}
			if day.AvailableRooms < quantity {
				return &domain.InsufficientAvailabilityError{
					RoomTypeID: roomTypeID,
					Date:       day.Date,
					Requested:  quantity,
					Available:  day.AvailableRooms,
				}
			}
		}

		for i := range days {
			day := &days[i]
			if err := day.ApplyDelta(-quantity, quantity); err != nil {
				s.logConstraintViolation(err, "reserve", day)
				return err
			}
			if err := s.inventoryRepo.UpdateCounts(txCtx, day); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		metrics.ReservationRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	s.invalidateAvailability(ctx, roomTypeID)
	metrics.ReservationsTotal.Inc()

	s.logger.Info().
		Str("room_type_id", roomTypeID.String()).
		Str("checkin", stay.CheckIn.Format(domain.DateLayout)).
		Str("checkout", stay.CheckOut.Format(domain.DateLayout)).
		Int("quantity", quantity).
		Msg("inventory reserved")

	return dates, nil
}

// Release is the inverse of Reserve: sold back to available across the same rows,
// atomically. Releasing more than a date has sold is a data integrity failure.
func (s *ReservationService) Release(ctx context.Context, roomTypeID uuid.UUID, stay domain.StayRange, quantity int) ([]time.Time, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	dates, err := stay.Dates()
	if err != nil {
		return nil, err
	}

	err = s.inventoryRepo.WithTx(ctx, func(txCtx context.Context) error {
		days, err := s.inventoryRepo.LockDays(txCtx, roomTypeID, dates)
		if err != nil {
			return err
		}

		if missing := missingDates(dates, days); len(missing) > 0 {
			return &domain.RangeIncompleteError{RoomTypeID: roomTypeID, Missing: missing}
		}

		for i := range days {
			day := &days[i]
			if day.RoomsSold < quantity {
				return &domain.CancelExceedsSoldError{
					RoomTypeID: roomTypeID,
					Date:       day.Date,
					Requested:  quantity,
					Sold:       day.RoomsSold,
				}
			}
		}

		for i := range days {
			day := &days[i]
			if err := day.ApplyDelta(quantity, -quantity); err != nil {
				s.logConstraintViolation(err, "release", day)
				return err
			}
			if err := s.inventoryRepo.UpdateCounts(txCtx, day); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, roomTypeID)
	metrics.ReleasesTotal.Inc()

	s.logger.Info().
		Str("room_type_id", roomTypeID.String()).
		Str("checkin", stay.CheckIn.Format(domain.DateLayout)).
		Str("checkout", stay.CheckOut.Format(domain.DateLayout)).
		Int("quantity", quantity).
		Msg("inventory released")

	return dates, nil
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, roomTypeID uuid.UUID) {
	if err := s.cache.Del(ctx, availabilityCacheKey(roomTypeID)).Err(); err != nil {
		s.logger.Warn().Err(err).
			Str("room_type_id", roomTypeID.String()).
			Msg("failed to invalidate availability cache")
	}
}

// Constraint violations should be unreachable given the pre-checks above, so they are
// logged as defects rather than business rejections.
func (s *ReservationService) logConstraintViolation(err error, op string, day *domain.InventoryDay) {
	s.logger.Error().Err(err).
		Str("op", op).
		Str("room_type_id", day.RoomTypeID.String()).
		Str("date", day.Date.Format(domain.DateLayout)).
		Int("total", day.TotalRooms).
		Int("available", day.AvailableRooms).
		Int("blocked", day.BlockedRooms).
		Int("sold", day.RoomsSold).
		Msg("ledger invariant violated")
}

func missingDates(dates []time.Time, days []domain.InventoryDay) []time.Time {
	have := make(map[time.Time]bool, len(days))
	for _, d := range days {
		have[domain.DateOnly(d.Date)] = true
	}

	var missing []time.Time
	for _, d := range dates {
		if !have[d] {
			missing = append(missing, d)
		}
	}

	return missing
}

func rejectionReason(err error) string {
	var (
		stopSell     *domain.StopSellError
		insufficient *domain.InsufficientAvailabilityError
		incomplete   *domain.RangeIncompleteError
		violation    *domain.ConstraintViolationError
	)

	switch {
	case errors.As(err, &stopSell):
		return "stop_sell"
	case errors.As(err, &insufficient):
		return "insufficient_availability"
	case errors.As(err, &incomplete):
		return "range_incomplete"
	case errors.As(err, &violation):
		return "constraint_violation"
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "invalid_date_range"
	default:
		return "other"
	}
}
