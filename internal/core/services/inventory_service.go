package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/ports"
)

const availabilityCacheTTL = 60 * time.Second

// InventoryService covers ledger administration (provisioning, explicit adjustments,
// stop-sell) and the unlocked availability read path. Deltas and absolute overrides
// are separate operations on purpose; no call accepts both.
type InventoryService struct {
	inventoryRepo ports.InventoryRepository
	cache         *redis.Client
	logger        zerolog.Logger
}

func NewInventoryService(inventoryRepo ports.InventoryRepository, cache *redis.Client, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		cache:         cache,
		logger:        logger,
	}
}

// Provision creates ledger rows for [from, to) with the given room count, all of it
// available. Existing dates are left untouched, so re-running a backfill is safe.
func (s *InventoryService) Provision(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time, totalRooms int) (int, error) {
	if totalRooms < 0 {
		return 0, domain.ErrInvalidTotalRooms
	}

	horizon := domain.StayRange{CheckIn: domain.DateOnly(from), CheckOut: domain.DateOnly(to)}
	dates, err := horizon.Dates()
	if err != nil {
		return 0, err
	}

	days := make([]domain.InventoryDay, len(dates))
	for i, date := range dates {
		days[i] = domain.InventoryDay{
			RoomTypeID:     roomTypeID,
			Date:           date,
			TotalRooms:     totalRooms,
			AvailableRooms: totalRooms,
		}
	}

	created, err := s.inventoryRepo.CreateDays(ctx, days)
	if err != nil {
		return created, err
	}

	s.invalidateCache(ctx, roomTypeID)

	s.logger.Info().
		Str("room_type_id", roomTypeID.String()).
		Int("dates", len(dates)).
		Int("created", created).
		Msg("inventory provisioned")

	return created, nil
}

// AdjustDelta applies explicit count deltas across a date range under row locks.
// Blocking rooms takes them out of the available pool; unblocking returns them.
func (s *InventoryService) AdjustDelta(ctx context.Context, roomTypeID uuid.UUID, stay domain.StayRange, deltaTotal, deltaBlocked int) error {
	dates, err := stay.Dates()
	if err != nil {
		return err
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
			day.TotalRooms += deltaTotal
			day.BlockedRooms += deltaBlocked
			day.AvailableRooms += deltaTotal - deltaBlocked
			if err := day.Validate(); err != nil {
				return err
			}
			if err := s.inventoryRepo.UpdateCounts(txCtx, day); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, roomTypeID)
	return nil
}

// SetStopSell closes or reopens a date range for sale without changing any counts.
func (s *InventoryService) SetStopSell(ctx context.Context, roomTypeID uuid.UUID, stay domain.StayRange, stopSell bool) error {
	dates, err := stay.Dates()
	if err != nil {
		return err
	}

	if err := s.inventoryRepo.SetStopSell(ctx, roomTypeID, dates, stopSell); err != nil {
		return err
	}

	s.invalidateCache(ctx, roomTypeID)
	return nil
}

type DayAvailability struct {
	Date      string `json:"date"`
	Available int    `json:"available"`
	StopSell  bool   `json:"stop_sell"`
}

// Availability is the display read path: effective sellable counts per date, read
// without locks and served from cache when possible. It never authorizes a
// reservation; that always goes through the engine's locked path.
func (s *InventoryService) Availability(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time) ([]DayAvailability, error) {
	window, err := domain.NewStayRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := s.cachedDays(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	result := make([]DayAvailability, 0, window.Nights())
	for _, day := range days {
		if day.Date.Before(window.CheckIn) || !day.Date.Before(window.CheckOut) {
			continue
		}

		result = append(result, DayAvailability{
			Date:      day.Date.Format(domain.DateLayout),
			Available: day.Sellable(),
			StopSell:  day.StopSell,
		})
	}

	return result, nil
}

// cachedDays serves the room type's full ledger from Redis, falling back to the
// database on miss or cache outage. The engine deletes the key on every mutation.
func (s *InventoryService) cachedDays(ctx context.Context, roomTypeID uuid.UUID) ([]domain.InventoryDay, error) {
	key := availabilityCacheKey(roomTypeID)

	cached, err := s.cache.Get(ctx, key).Result()
	if err == nil {
		var days []domain.InventoryDay
		if err := json.Unmarshal([]byte(cached), &days); err == nil {
			return days, nil
		}
		s.logger.Warn().Str("key", key).Msg("dropping malformed availability cache entry")
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Str("key", key).Msg("availability cache read failed")
	}

	days, err := s.inventoryRepo.ListDays(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(days); err == nil {
		if err := s.cache.Set(ctx, key, payload, availabilityCacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("availability cache write failed")
		}
	}

	return days, nil
}

func (s *InventoryService) invalidateCache(ctx context.Context, roomTypeID uuid.UUID) {
	if err := s.cache.Del(ctx, availabilityCacheKey(roomTypeID)).Err(); err != nil {
		s.logger.Warn().Err(err).
			Str("room_type_id", roomTypeID.String()).
			Msg("failed to invalidate availability cache")
	}
}
