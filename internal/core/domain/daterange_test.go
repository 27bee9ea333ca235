package domain_test

import (
	"testing"
	"time"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStayRange_Dates(t *testing.T) {
	t.Run("single night touches one date", func(t *testing.T) {
		stay := domain.StayRange{CheckIn: date(2024, 3, 1), CheckOut: date(2024, 3, 2)}

		dates, err := stay.Dates()

		assert.NoError(t, err)
		assert.Equal(t, []time.Time{date(2024, 3, 1)}, dates)
	})

	t.Run("multi night ascending checkout excluded", func(t *testing.T) {
		stay := domain.StayRange{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 13)}

		dates, err := stay.Dates()

		assert.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2024, 1, 10),
			date(2024, 1, 11),
			date(2024, 1, 12),
		}, dates)
	})

	t.Run("crosses month boundary", func(t *testing.T) {
		stay := domain.StayRange{CheckIn: date(2024, 2, 28), CheckOut: date(2024, 3, 2)}

		dates, err := stay.Dates()

		assert.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2024, 2, 28),
			date(2024, 2, 29),
			date(2024, 3, 1),
		}, dates)
	})

	t.Run("checkout equal to checkin is rejected", func(t *testing.T) {
		stay := domain.StayRange{CheckIn: date(2024, 3, 1), CheckOut: date(2024, 3, 1)}

		_, err := stay.Dates()

		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("checkout before checkin is rejected", func(t *testing.T) {
		stay := domain.StayRange{CheckIn: date(2024, 3, 5), CheckOut: date(2024, 3, 1)}

		_, err := stay.Dates()

		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("time of day does not shift the sequence", func(t *testing.T) {
		stay := domain.StayRange{
			CheckIn:  time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC),
			CheckOut: time.Date(2024, 1, 12, 0, 1, 0, 0, time.UTC),
		}

		dates, err := stay.Dates()

		assert.NoError(t, err)
		assert.Equal(t, []time.Time{date(2024, 1, 10), date(2024, 1, 11)}, dates)
	})
}

func TestNewStayRange(t *testing.T) {
	stay, err := domain.NewStayRange(
		time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 3, 11, 0, 0, 0, time.UTC),
	)

	assert.NoError(t, err)
	assert.Equal(t, date(2024, 5, 1), stay.CheckIn)
	assert.Equal(t, date(2024, 5, 3), stay.CheckOut)
	assert.Equal(t, 2, stay.Nights())

	_, err = domain.NewStayRange(date(2024, 5, 1), date(2024, 5, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
