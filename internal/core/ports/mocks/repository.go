// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

type InventoryRepository struct {
	mock.Mock
}

func NewInventoryRepository(t *testing.T) *InventoryRepository {
	m := &InventoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx runs fn directly; transactional boundaries are not simulated in unit tests.
func (m *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *InventoryRepository) LockDays(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time) ([]domain.InventoryDay, error) {
	args := m.Called(ctx, roomTypeID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryDay), args.Error(1)
}

func (m *InventoryRepository) UpdateCounts(ctx context.Context, day *domain.InventoryDay) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

func (m *InventoryRepository) CreateDays(ctx context.Context, days []domain.InventoryDay) (int, error) {
	args := m.Called(ctx, days)
	return args.Int(0), args.Error(1)
}

func (m *InventoryRepository) SetStopSell(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time, stopSell bool) error {
	args := m.Called(ctx, roomTypeID, dates, stopSell)
	return args.Error(0)
}

func (m *InventoryRepository) ListDays(ctx context.Context, roomTypeID uuid.UUID) ([]domain.InventoryDay, error) {
	args := m.Called(ctx, roomTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryDay), args.Error(1)
}

type BookingRepository struct {
	mock.Mock
}

func NewBookingRepository(t *testing.T) *BookingRepository {
	m := &BookingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) MarkHold(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	args := m.Called(ctx, id, code, expiresAt)
	return args.Error(0)
}

func (m *BookingRepository) MarkReleased(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *BookingRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BookingRepository) SetPaymentMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) error {
	args := m.Called(ctx, id, method)
	return args.Error(0)
}

func (m *BookingRepository) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type RatePlanRepository struct {
	mock.Mock
}

func NewRatePlanRepository(t *testing.T) *RatePlanRepository {
	m := &RatePlanRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatePlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RatePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatePlan), args.Error(1)
}
