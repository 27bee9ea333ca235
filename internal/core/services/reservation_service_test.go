package services_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/ports"
	"github.com/srgjo27/hotel_inventory/internal/core/ports/mocks"
	"github.com/srgjo27/hotel_inventory/internal/core/services"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ledgerRows(roomTypeID uuid.UUID, total, available, sold int, dates ...time.Time) []domain.InventoryDay {
	rows := make([]domain.InventoryDay, len(dates))
	for i, date := range dates {
		rows[i] = domain.InventoryDay{
			RoomTypeID:     roomTypeID,
			Date:           date,
			TotalRooms:     total,
			AvailableRooms: available,
			RoomsSold:      sold,
		}
	}
	return rows
}

func TestReserve_Success(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 13)}
	dates := []time.Time{day(2024, 1, 10), day(2024, 1, 11), day(2024, 1, 12)}

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).
		Return(ledgerRows(roomTypeID, 10, 10, 0, dates...), nil)

	var updated []domain.InventoryDay
	invRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*domain.InventoryDay")).
		Run(func(args mock.Arguments) {
			updated = append(updated, *args.Get(1).(*domain.InventoryDay))
		}).
		Return(nil).Times(3)

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectDel("availability:" + roomTypeID.String()).SetVal(1)

	engine := services.NewReservationService(invRepo, cache, zerolog.Nop())

	got, err := engine.Reserve(ctx, roomTypeID, stay, 3)

	assert.NoError(t, err)
	assert.Equal(t, dates, got)
	assert.Len(t, updated, 3)
	for _, row := range updated {
		assert.Equal(t, 7, row.AvailableRooms)
		assert.Equal(t, 3, row.RoomsSold)
	}
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestReserve_InsufficientAvailability(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 13)}
	dates := []time.Time{day(2024, 1, 10), day(2024, 1, 11), day(2024, 1, 12)}

	rows := ledgerRows(roomTypeID, 10, 7, 3, dates...)
	rows[1].AvailableRooms = 2
	rows[1].RoomsSold = 8

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).Return(rows, nil)

	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(invRepo, cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, stay, 3)

	var insufficient *domain.InsufficientAvailabilityError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, day(2024, 1, 11), insufficient.Date)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	// A shortfall on any night must leave every night untouched.
	invRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}

func TestReserve_StopSell(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 12)}
	dates := []time.Time{day(2024, 1, 10), day(2024, 1, 11)}

	rows := ledgerRows(roomTypeID, 10, 10, 0, dates...)
	rows[1].StopSell = true

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).Return(rows, nil)

	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(invRepo, cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, stay, 1)

	var stopSell *domain.StopSellError
	assert.ErrorAs(t, err, &stopSell)
	assert.Equal(t, day(2024, 1, 11), stopSell.Date)
	invRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}

func TestReserve_RangeIncomplete(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 13)}
	dates := []time.Time{day(2024, 1, 10), day(2024, 1, 11), day(2024, 1, 12)}

	// The middle date was never provisioned.
	rows := ledgerRows(roomTypeID, 10, 10, 0, dates[0], dates[2])

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).Return(rows, nil)

	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(invRepo, cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, stay, 1)

	var incomplete *domain.RangeIncompleteError
	assert.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []time.Time{day(2024, 1, 11)}, incomplete.Missing)
}

func TestReserve_InvalidInput(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(mocks.NewInventoryRepository(t), cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 12)}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = engine.Reserve(ctx, roomTypeID, domain.StayRange{CheckIn: day(2024, 1, 12), CheckOut: day(2024, 1, 10)}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestRelease_CancelExceedsSold(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 1, 10), CheckOut: day(2024, 1, 12)}
	dates := []time.Time{day(2024, 1, 10), day(2024, 1, 11)}

	rows := ledgerRows(roomTypeID, 10, 9, 1, dates...)

	invRepo := mocks.NewInventoryRepository(t)
	invRepo.On("LockDays", ctx, roomTypeID, dates).Return(rows, nil)

	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(invRepo, cache, zerolog.Nop())

	_, err := engine.Release(ctx, roomTypeID, stay, 2)

	var exceeds *domain.CancelExceedsSoldError
	assert.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 2, exceeds.Requested)
	assert.Equal(t, 1, exceeds.Sold)
	invRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}

// fakeLedger is an in-memory InventoryRepository with snapshot-rollback
// transactions, for tests that care about end state rather than call shape.
type fakeLedger struct {
	mu   sync.Mutex
	days map[time.Time]domain.InventoryDay
}

var _ ports.InventoryRepository = (*fakeLedger)(nil)

func newFakeLedger(rows []domain.InventoryDay) *fakeLedger {
	f := &fakeLedger{days: make(map[time.Time]domain.InventoryDay, len(rows))}
	for _, row := range rows {
		f.days[row.Date] = row
	}
	return f
}

// WithTx holds the ledger lock for the whole callback, mirroring the row locks
// the real repository takes. The inner methods must only run inside it.
func (f *fakeLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make(map[time.Time]domain.InventoryDay, len(f.days))
	for k, v := range f.days {
		snapshot[k] = v
	}

	if err := fn(ctx); err != nil {
		f.days = snapshot
		return err
	}
	return nil
}

func (f *fakeLedger) LockDays(_ context.Context, roomTypeID uuid.UUID, dates []time.Time) ([]domain.InventoryDay, error) {
	var rows []domain.InventoryDay
	for _, date := range dates {
		if row, ok := f.days[date]; ok && row.RoomTypeID == roomTypeID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeLedger) UpdateCounts(_ context.Context, day *domain.InventoryDay) error {
	f.days[day.Date] = *day
	return nil
}

func (f *fakeLedger) CreateDays(_ context.Context, rows []domain.InventoryDay) (int, error) {
	created := 0
	for _, row := range rows {
		if _, ok := f.days[row.Date]; !ok {
			f.days[row.Date] = row
			created++
		}
	}
	return created, nil
}

func (f *fakeLedger) SetStopSell(_ context.Context, roomTypeID uuid.UUID, dates []time.Time, stopSell bool) error {
	for _, date := range dates {
		if row, ok := f.days[date]; ok && row.RoomTypeID == roomTypeID {
			row.StopSell = stopSell
			f.days[date] = row
		}
	}
	return nil
}

func (f *fakeLedger) ListDays(_ context.Context, roomTypeID uuid.UUID) ([]domain.InventoryDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []domain.InventoryDay
	for _, row := range f.days {
		if row.RoomTypeID == roomTypeID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (f *fakeLedger) snapshot() map[time.Time]domain.InventoryDay {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[time.Time]domain.InventoryDay, len(f.days))
	for k, v := range f.days {
		out[k] = v
	}
	return out
}

func TestReserveRelease_RoundTripConservesLedger(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 6, 1), CheckOut: day(2024, 6, 4)}
	dates := []time.Time{day(2024, 6, 1), day(2024, 6, 2), day(2024, 6, 3)}

	ledger := newFakeLedger(ledgerRows(roomTypeID, 10, 10, 0, dates...))
	before := ledger.snapshot()

	cache, cacheMock := redismock.NewClientMock()
	key := "availability:" + roomTypeID.String()
	cacheMock.ExpectDel(key).SetVal(1)
	cacheMock.ExpectDel(key).SetVal(1)

	engine := services.NewReservationService(ledger, cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, stay, 4)
	assert.NoError(t, err)

	held := ledger.snapshot()
	for _, date := range dates {
		assert.Equal(t, 6, held[date].AvailableRooms)
		assert.Equal(t, 4, held[date].RoomsSold)
	}

	_, err = engine.Release(ctx, roomTypeID, stay, 4)
	assert.NoError(t, err)

	assert.Equal(t, before, ledger.snapshot())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestReserve_FailureLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 6, 1), CheckOut: day(2024, 6, 4)}
	dates := []time.Time{day(2024, 6, 1), day(2024, 6, 2), day(2024, 6, 3)}

	rows := ledgerRows(roomTypeID, 10, 10, 0, dates...)
	rows[2].AvailableRooms = 3
	rows[2].RoomsSold = 7

	ledger := newFakeLedger(rows)
	before := ledger.snapshot()

	cache, _ := redismock.NewClientMock()
	engine := services.NewReservationService(ledger, cache, zerolog.Nop())

	_, err := engine.Reserve(ctx, roomTypeID, stay, 4)

	var insufficient *domain.InsufficientAvailabilityError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, before, ledger.snapshot())
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	roomTypeID := uuid.New()
	stay := domain.StayRange{CheckIn: day(2024, 6, 1), CheckOut: day(2024, 6, 3)}
	dates := []time.Time{day(2024, 6, 1), day(2024, 6, 2)}

	ledger := newFakeLedger(ledgerRows(roomTypeID, 5, 5, 0, dates...))

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.MatchExpectationsInOrder(false)
	key := "availability:" + roomTypeID.String()
	for i := 0; i < 5; i++ {
		cacheMock.ExpectDel(key).SetVal(1)
	}

	engine := services.NewReservationService(ledger, cache, zerolog.Nop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Reserve(ctx, roomTypeID, stay, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				var insufficient *domain.InsufficientAvailabilityError
				assert.ErrorAs(t, err, &insufficient)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, successes)
	for date, row := range ledger.snapshot() {
		assert.Equal(t, 0, row.AvailableRooms, date.Format(domain.DateLayout))
		assert.Equal(t, 5, row.RoomsSold, date.Format(domain.DateLayout))
		assert.NoError(t, row.Validate())
	}
}
