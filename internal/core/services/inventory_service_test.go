package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/ports/mocks"
	"github.com/srgjo27/hotel_inventory/internal/core/services"
)

func TestProvision_CreatesAllAvailableRows(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()

	invRepo := mocks.NewInventoryRepository(t)

	var created []domain.InventoryDay
	invRepo.On("CreateDays", ctx, mock.AnythingOfType("[]domain.InventoryDay")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).([]domain.InventoryDay)
		}).
		Return(3, nil)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("availability:" + roomTypeID.String()).SetVal(1)

	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	count, err := svc.Provision(ctx, roomTypeID, day(2024, 7, 1), day(2024, 7, 4), 4)

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, created, 3)
	for i, row := range created {
		assert.Equal(t, day(2024, 7, 1+i), row.Date)
		assert.Equal(t, 4, row.TotalRooms)
		assert.Equal(t, 4, row.AvailableRooms)
		assert.Equal(t, 0, row.BlockedRooms)
		assert.Equal(t, 0, row.RoomsSold)
	}
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestProvision_NegativeTotalRooms(t *testing.T) {
	ctx := context.Background()
	cache, _ := redismock.NewClientMock()
	svc := services.NewInventoryService(mocks.NewInventoryRepository(t), cache, zerolog.Nop())

	_, err := svc.Provision(ctx, uuid.New(), day(2024, 7, 1), day(2024, 7, 4), -1)

	assert.ErrorIs(t, err, domain.ErrInvalidTotalRooms)
}

func TestAdjustDelta_BlocksRooms(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 7, 1), CheckOut: day(2024, 7, 3)}
	dates := []time.Time{day(2024, 7, 1), day(2024, 7, 2)}

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).
		Return(ledgerRows(roomTypeID, 10, 10, 0, dates...), nil)

	var updated []domain.InventoryDay
	invRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*domain.InventoryDay")).
		Run(func(args mock.Arguments) {
			updated = append(updated, *args.Get(1).(*domain.InventoryDay))
		}).
		Return(nil).Times(2)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("availability:" + roomTypeID.String()).SetVal(1)

	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	err := svc.AdjustDelta(ctx, roomTypeID, stay, 0, 2)

	assert.NoError(t, err)
	for _, row := range updated {
		assert.Equal(t, 8, row.AvailableRooms)
		assert.Equal(t, 2, row.BlockedRooms)
		assert.Equal(t, 10, row.TotalRooms)
	}
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestAdjustDelta_RejectsInvariantViolation(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 7, 1), CheckOut: day(2024, 7, 2)}
	dates := []time.Time{day(2024, 7, 1)}

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).
		Return(ledgerRows(roomTypeID, 10, 10, 0, dates...), nil)

	cache, _ := redismock.NewClientMock()
	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	// Blocking more rooms than exist would push available negative.
	err := svc.AdjustDelta(ctx, roomTypeID, stay, 0, 11)

	var violation *domain.ConstraintViolationError
	assert.ErrorAs(t, err, &violation)
	invRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}

func TestSetStopSell_ClosesRange(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 7, 1), CheckOut: day(2024, 7, 3)}
	dates := []time.Time{day(2024, 7, 1), day(2024, 7, 2)}

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("SetStopSell", ctx, roomTypeID, dates, true).Return(nil)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("availability:" + roomTypeID.String()).SetVal(1)

	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	err := svc.SetStopSell(ctx, roomTypeID, stay, true)

	assert.NoError(t, err)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestAvailability_CacheMissFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	key := "availability:" + roomTypeID.String()

	// Full ledger, wider than the requested window.
	days := ledgerRows(roomTypeID, 10, 7, 3,
		day(2024, 7, 1), day(2024, 7, 2), day(2024, 7, 3), day(2024, 7, 4))
	days[2].StopSell = true

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("ListDays", ctx, roomTypeID).Return(days, nil)

	payload, err := json.Marshal(days)
	assert.NoError(t, err)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet(key).RedisNil()
	cacheMock.ExpectSet(key, payload, 60*time.Second).SetVal("OK")

	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	got, err := svc.Availability(ctx, roomTypeID, day(2024, 7, 2), day(2024, 7, 4))

	assert.NoError(t, err)
	assert.Equal(t, []services.DayAvailability{
		{Date: "2024-07-02", Available: 7, StopSell: false},
		{Date: "2024-07-03", Available: 0, StopSell: true},
	}, got)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestAvailability_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	key := "availability:" + roomTypeID.String()

	days := ledgerRows(roomTypeID, 10, 5, 5, day(2024, 7, 1), day(2024, 7, 2))
	payload, err := json.Marshal(days)
	assert.NoError(t, err)

	invRepo := mocks.NewInventoryRepository(t)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet(key).SetVal(string(payload))

	svc := services.NewInventoryService(invRepo, cache, zerolog.Nop())

	got, err := svc.Availability(ctx, roomTypeID, day(2024, 7, 1), day(2024, 7, 3))

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Available)

	invRepo.AssertNotCalled(t, "ListDays", mock.Anything, mock.Anything)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestAvailability_InvalidWindow(t *testing.T) {
	ctx := context.Background()
	cache, _ := redismock.NewClientMock()
	svc := services.NewInventoryService(mocks.NewInventoryRepository(t), cache, zerolog.Nop())

	_, err := svc.Availability(ctx, uuid.New(), day(2024, 7, 3), day(2024, 7, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
