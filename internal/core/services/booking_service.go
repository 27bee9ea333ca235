package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/ports"
	"github.com/srgjo27/hotel_inventory/internal/platform/clock"
)

const (
	defaultHoldTTL        = 5 * time.Minute
	defaultSweepInterval  = 1 * time.Minute
	defaultSweepBatchSize = 50
)

// BookingService drives the booking lifecycle: DRAFT -> HOLD -> CONFIRMED, CANCELLED
// or EXPIRED. Every transition that touches the ledger runs inside one transaction
// with a locked state check, so a booking's capacity claim is reserved and released
// at most once.
type BookingService struct {
	bookingRepo  ports.BookingRepository
	ratePlanRepo ports.RatePlanRepository
	engine       *ReservationService
	clock        clock.Clock
	logger       zerolog.Logger

	holdTTL        time.Duration
	sweepInterval  time.Duration
	sweepBatchSize int
}

type BookingServiceOption func(*BookingService)

// WithHoldTTL overrides how long a hold keeps rooms off sale without payment.
func WithHoldTTL(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

func WithSweepInterval(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

func WithSweepBatchSize(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.sweepBatchSize = n
		}
	}
}

func NewBookingService(
	bookingRepo ports.BookingRepository,
	ratePlanRepo ports.RatePlanRepository,
	engine *ReservationService,
	clk clock.Clock,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	svc := &BookingService{
		bookingRepo:    bookingRepo,
		ratePlanRepo:   ratePlanRepo,
		engine:         engine,
		clock:          clk,
		logger:         logger,
		holdTTL:        defaultHoldTTL,
		sweepInterval:  defaultSweepInterval,
		sweepBatchSize: defaultSweepBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateDraftInput struct {
	HotelID      uuid.UUID
	RoomTypeID   uuid.UUID
	RatePlanID   uuid.UUID
	CheckinDate  time.Time
	CheckoutDate time.Time
	Rooms        int

	GuestName  string
	GuestEmail string
	GuestPhone string

	TotalRoomPrice float64
	TaxAmount      float64
	GrandTotal     float64
}

// CreateDraft records the stay without touching the ledger.
func (s *BookingService) CreateDraft(ctx context.Context, in CreateDraftInput) (*domain.Booking, error) {
	stay, err := domain.NewStayRange(in.CheckinDate, in.CheckoutDate)
	if err != nil {
		return nil, domain.ErrInvalidStay
	}

	if in.Rooms < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	if _, err := s.ratePlanRepo.GetByID(ctx, in.RatePlanID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:             uuid.New(),
		HotelID:        in.HotelID,
		RoomTypeID:     in.RoomTypeID,
		RatePlanID:     in.RatePlanID,
		CheckinDate:    stay.CheckIn,
		CheckoutDate:   stay.CheckOut,
		Nights:         stay.Nights(),
		Rooms:          in.Rooms,
		GuestName:      in.GuestName,
		GuestEmail:     in.GuestEmail,
		GuestPhone:     in.GuestPhone,
		TotalRoomPrice: in.TotalRoomPrice,
		TaxAmount:      in.TaxAmount,
		GrandTotal:     in.GrandTotal,
		Status:         domain.BookingDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

type HoldResult struct {
	ReservationCode string
	ExpiresAt       time.Time
}

// PlaceHold moves a DRAFT booking to HOLD, reserving its whole date range atomically.
// On any engine failure the booking stays DRAFT and the error surfaces unchanged.
func (s *BookingService) PlaceHold(ctx context.Context, bookingID uuid.UUID) (*HoldResult, error) {
	// Stale holds must not falsely occupy capacity when this hold is checked.
	s.SweepExpiredHolds(ctx)

	var result *HoldResult
	err := s.bookingRepo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.BookingDraft {
			return &domain.InvalidStateTransitionError{BookingID: booking.ID, From: booking.Status, Op: "place hold"}
		}

		if _, err := s.engine.Reserve(txCtx, booking.RoomTypeID, booking.Stay(), booking.Rooms); err != nil {
			return err
		}

		code := uuid.New().String()
		expiresAt := s.clock.Now().Add(s.holdTTL)
		if err := s.bookingRepo.MarkHold(txCtx, booking.ID, code, expiresAt); err != nil {
			return err
		}

		result = &HoldResult{ReservationCode: code, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", bookingID.String()).
		Time("expires_at", result.ExpiresAt).
		Msg("booking placed on hold")

	return result, nil
}

// CancelHold releases the hold's ledger claim and moves the booking to CANCELLED.
// A second call finds the booking no longer in HOLD and is rejected, which is what
// makes the release idempotent per booking.
func (s *BookingService) CancelHold(ctx context.Context, bookingID uuid.UUID) error {
	s.SweepExpiredHolds(ctx)
	return s.release(ctx, bookingID, domain.BookingCancelled, "cancel hold", false)
}

// ConfirmPayment moves a HOLD booking to CONFIRMED. The ledger is not touched: the
// sold count was committed at reserve time, payment success only removes
// cancellability.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	err := s.bookingRepo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.BookingHold {
			return &domain.InvalidStateTransitionError{BookingID: booking.ID, From: booking.Status, Op: "confirm payment"}
		}

		return s.bookingRepo.MarkConfirmed(txCtx, booking.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("booking_id", bookingID.String()).Msg("booking confirmed")
	return nil
}

// HandlePaymentFailed releases the hold when the payment collaborator reports a
// failed or abandoned payment.
func (s *BookingService) HandlePaymentFailed(ctx context.Context, bookingID uuid.UUID) error {
	return s.release(ctx, bookingID, domain.BookingCancelled, "payment failed", false)
}

// SetPaymentMethod assigns the method the guest will pay with. Rate plans that
// require prepayment only accept online methods.
func (s *BookingService) SetPaymentMethod(ctx context.Context, bookingID uuid.UUID, method domain.PaymentMethod) error {
	if !method.Valid() {
		return domain.ErrInvalidPaymentMethod
	}

	s.SweepExpiredHolds(ctx)

	return s.bookingRepo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.BookingDraft && booking.Status != domain.BookingHold {
			return &domain.InvalidStateTransitionError{BookingID: booking.ID, From: booking.Status, Op: "set payment method"}
		}

		plan, err := s.ratePlanRepo.GetByID(txCtx, booking.RatePlanID)
		if err != nil {
			return err
		}

		if plan.RequiresPrepayment && !method.Online() {
			return domain.ErrInvalidPaymentMethod
		}

		return s.bookingRepo.SetPaymentMethod(txCtx, booking.ID, method)
	})
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// release performs the HOLD -> terminal transition and the ledger release in one
// transaction. The locked state check is what guarantees at-most-once release when a
// cancel races the expiry sweep.
func (s *BookingService) release(ctx context.Context, bookingID uuid.UUID, to domain.BookingStatus, op string, requireExpired bool) error {
	err := s.bookingRepo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.BookingHold {
			return &domain.InvalidStateTransitionError{BookingID: booking.ID, From: booking.Status, Op: op}
		}

		if requireExpired && booking.HoldExpiresAt != nil && !booking.HoldExpiresAt.Before(s.clock.Now()) {
			// The deadline moved past the sweep query; leave the hold alone.
			return nil
		}

		if _, err := s.engine.Release(txCtx, booking.RoomTypeID, booking.Stay(), booking.Rooms); err != nil {
			return err
		}

		return s.bookingRepo.MarkReleased(txCtx, booking.ID, to)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("booking_id", bookingID.String()).
		Str("status", string(to)).
		Msg("hold released")

	return nil
}
