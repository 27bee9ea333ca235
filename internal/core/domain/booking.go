package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingDraft     BookingStatus = "DRAFT"
	BookingHold      BookingStatus = "HOLD"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// Terminal reports whether no further transition may leave the status.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingExpired
}

type PaymentMethod string

const (
	PaymentVietQR     PaymentMethod = "VIETQR"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentAtHotel    PaymentMethod = "PAY_AT_HOTEL"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentVietQR, PaymentCreditCard, PaymentAtHotel:
		return true
	}
	return false
}

// Online reports whether the method collects payment before arrival. Rate plans that
// require prepayment only accept online methods.
func (m PaymentMethod) Online() bool {
	switch m {
	case PaymentVietQR, PaymentCreditCard:
		return true
	}
	return false
}

// Booking owns its claim on ledger capacity for its date range and room quantity
// while in HOLD or CONFIRMED; leaving HOLD for CANCELLED or EXPIRED releases that
// claim exactly once.
type Booking struct {
	ID           uuid.UUID
	HotelID      uuid.UUID
	RoomTypeID   uuid.UUID
	RatePlanID   uuid.UUID
	CheckinDate  time.Time
	CheckoutDate time.Time
	Nights       int
	Rooms        int

	GuestName  string
	GuestEmail string
	GuestPhone string

	TotalRoomPrice float64
	TaxAmount      float64
	GrandTotal     float64

	PaymentMethod   *PaymentMethod
	Status          BookingStatus
	ReservationCode *string
	HoldExpiresAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Stay returns the booking's date range; a reservation always spans exactly Nights
// consecutive ledger rows.
func (b *Booking) Stay() StayRange {
	return StayRange{CheckIn: b.CheckinDate, CheckOut: b.CheckoutDate}
}
