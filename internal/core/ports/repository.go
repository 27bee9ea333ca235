package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

// InventoryRepository is the ledger's data access contract. WithTx runs fn inside a
// transaction carried by the context; repository calls made with that context join it,
// so a multi-row reservation commits or rolls back as one unit.
type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockDays returns the rows for the given dates with an exclusive row lock,
	// ordered by date ascending. Missing dates are simply absent from the result;
	// the engine turns gaps into a range-incomplete failure.
	LockDays(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time) ([]domain.InventoryDay, error)

	// UpdateCounts persists the counts and stop-sell flag of a locked row.
	UpdateCounts(ctx context.Context, day *domain.InventoryDay) error

	// CreateDays provisions rows for a horizon; dates that already exist are kept.
	// Returns how many rows were actually created.
	CreateDays(ctx context.Context, days []domain.InventoryDay) (int, error)

	SetStopSell(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time, stopSell bool) error

	// ListDays is the unlocked read for display and search. Never used to authorize
	// a reservation.
	ListDays(ctx context.Context, roomTypeID uuid.UUID) ([]domain.InventoryDay, error)
}

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// MarkHold moves a DRAFT booking to HOLD with its reservation code and deadline.
	MarkHold(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error

	// MarkReleased moves a HOLD booking to CANCELLED or EXPIRED and clears the deadline.
	MarkReleased(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error

	MarkConfirmed(ctx context.Context, id uuid.UUID) error
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) error

	// FindExpiredHolds returns HOLD bookings past their deadline, oldest first,
	// bounded by limit.
	FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type RatePlanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RatePlan, error)
}
