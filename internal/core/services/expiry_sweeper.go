package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/platform/metrics"
)

// RunExpirySweeper periodically releases holds whose deadline has passed. It is safe
// to run alongside the lazy sweeps: each expiry re-checks the HOLD state under lock,
// so whichever sweep loses the race becomes a no-op.
func (s *BookingService) RunExpirySweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.sweepInterval).
		Int("batch_size", s.sweepBatchSize).
		Msg("expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.SweepExpiredHolds(ctx)
		}
	}
}

// SweepExpiredHolds releases up to one batch of expired holds, oldest deadline first
// so worst-case staleness stays bounded.
func (s *BookingService) SweepExpiredHolds(ctx context.Context) {
	now := s.clock.Now()

	ids, err := s.bookingRepo.FindExpiredHolds(ctx, now, s.sweepBatchSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch expired holds")
		return
	}

	if len(ids) == 0 {
		return
	}

	s.logger.Info().Int("count", len(ids)).Msg("releasing expired holds")

	for _, id := range ids {
		if err := s.Expire(ctx, id); err != nil {
			var stateErr *domain.InvalidStateTransitionError
			if errors.As(err, &stateErr) {
				// Another sweep or a cancel got there first; nothing left to release.
				continue
			}

			s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to expire hold")
			continue
		}

		metrics.ExpiredHoldsTotal.Inc()
	}
}

// Expire is the system-only transition: like a cancel, but only for holds past their
// deadline, and lands in EXPIRED.
func (s *BookingService) Expire(ctx context.Context, bookingID uuid.UUID) error {
	return s.release(ctx, bookingID, domain.BookingExpired, "expire", true)
}
