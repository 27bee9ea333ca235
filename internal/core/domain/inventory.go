package domain

import (
	"time"

	"github.com/google/uuid"
)

// InventoryDay is one ledger row: the room counts for a single room type on a single
// calendar date. Rows are created by provisioning and mutated only through the
// reservation engine's locked read-modify-write path.
type InventoryDay struct {
	RoomTypeID     uuid.UUID
	Date           time.Time
	TotalRooms     int
	AvailableRooms int
	BlockedRooms   int
	RoomsSold      int
	StopSell       bool
}

// Validate checks the row accounting invariant: no count is negative and
// available + blocked + sold never exceeds total.
func (d *InventoryDay) Validate() error {
	if d.TotalRooms < 0 || d.AvailableRooms < 0 || d.BlockedRooms < 0 || d.RoomsSold < 0 {
		return &ConstraintViolationError{Day: *d}
	}
	if d.AvailableRooms+d.BlockedRooms+d.RoomsSold > d.TotalRooms {
		return &ConstraintViolationError{Day: *d}
	}
	return nil
}

// ApplyDelta shifts the available and sold counts and re-checks the invariant.
// The row is left untouched when the delta would violate it.
func (d *InventoryDay) ApplyDelta(deltaAvailable, deltaSold int) error {
	next := *d
	next.AvailableRooms += deltaAvailable
	next.RoomsSold += deltaSold
	if err := next.Validate(); err != nil {
		return err
	}
	*d = next
	return nil
}

// Sellable is the effective count offered for sale on this date. AvailableRooms is a
// net pool: reserving moves quantity from available to sold, so no further subtraction
// is needed here.
func (d *InventoryDay) Sellable() int {
	if d.StopSell {
		return 0
	}
	return d.AvailableRooms
}
