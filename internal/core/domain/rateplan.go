package domain

import "github.com/google/uuid"

// RatePlan carries the booking rules the core needs; pricing itself is computed by an
// external collaborator and snapshotted onto the booking.
type RatePlan struct {
	ID                 uuid.UUID
	HotelID            uuid.UUID
	Name               string
	RequiresPrepayment bool
}
