package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDateRange     = errors.New("checkout must be strictly after checkin")
	ErrInvalidStay          = errors.New("stay must cover at least one night")
	ErrInvalidQuantity      = errors.New("room quantity must be at least 1")
	ErrInvalidTotalRooms    = errors.New("total rooms must not be negative")
	ErrInvalidPaymentMethod = errors.New("payment method not allowed")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrRatePlanNotFound     = errors.New("rate plan not found")
)

// RangeIncompleteError reports stay dates with no provisioned ledger row. The caller
// cannot fix this; an operator has to backfill the inventory horizon.
type RangeIncompleteError struct {
	RoomTypeID uuid.UUID
	Missing    []time.Time
}

func (e *RangeIncompleteError) Error() string {
	return fmt.Sprintf("inventory not provisioned for room type %s: %d missing date(s), first %s",
		e.RoomTypeID, len(e.Missing), e.Missing[0].Format(DateLayout))
}

// StopSellError rejects a reservation because a date in range is manually closed.
type StopSellError struct {
	RoomTypeID uuid.UUID
	Date       time.Time
	Requested  int
}

func (e *StopSellError) Error() string {
	return fmt.Sprintf("room type %s is stop-sold on %s (requested %d)",
		e.RoomTypeID, e.Date.Format(DateLayout), e.Requested)
}

type InsufficientAvailabilityError struct {
	RoomTypeID uuid.UUID
	Date       time.Time
	Requested  int
	Available  int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("room type %s has %d room(s) available on %s, requested %d",
		e.RoomTypeID, e.Available, e.Date.Format(DateLayout), e.Requested)
}

// CancelExceedsSoldError guards ledger integrity: a release may never return more
// rooms than the date has recorded as sold.
type CancelExceedsSoldError struct {
	RoomTypeID uuid.UUID
	Date       time.Time
	Requested  int
	Sold       int
}

func (e *CancelExceedsSoldError) Error() string {
	return fmt.Sprintf("cannot release %d room(s) for room type %s on %s: only %d sold",
		e.Requested, e.RoomTypeID, e.Date.Format(DateLayout), e.Sold)
}

// ConstraintViolationError means an otherwise-valid operation would break the row
// accounting invariant. Correct pre-checks make this unreachable, so it is treated as
// a defect signal rather than a business rejection.
type ConstraintViolationError struct {
	Day InventoryDay
}

func (e *ConstraintViolationError) Error() string {
	d := e.Day
	return fmt.Sprintf("ledger invariant violated for room type %s on %s: total=%d available=%d blocked=%d sold=%d",
		d.RoomTypeID, d.Date.Format(DateLayout), d.TotalRooms, d.AvailableRooms, d.BlockedRooms, d.RoomsSold)
}

type InvalidStateTransitionError struct {
	BookingID uuid.UUID
	From      BookingStatus
	Op        string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot %s from state %s", e.BookingID, e.Op, e.From)
}
