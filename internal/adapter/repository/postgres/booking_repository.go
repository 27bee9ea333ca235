package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

const bookingColumns = `
	id, hotel_id, room_type_id, rate_plan_id, checkin_date, checkout_date, nights, rooms,
	guest_name, guest_email, guest_phone, total_room_price, tax_amount, grand_total,
	payment_method, status, reservation_code, hold_expires_at, created_at, updated_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (
		id, hotel_id, room_type_id, rate_plan_id, checkin_date, checkout_date, nights, rooms,
		guest_name, guest_email, guest_phone, total_room_price, tax_amount, grand_total,
		status, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := q(ctx, r.db).ExecContext(ctx, query,
		booking.ID,
		booking.HotelID,
		booking.RoomTypeID,
		booking.RatePlanID,
		booking.CheckinDate.Format(domain.DateLayout),
		booking.CheckoutDate.Format(domain.DateLayout),
		booking.Nights,
		booking.Rooms,
		booking.GuestName,
		booking.GuestEmail,
		booking.GuestPhone,
		booking.TotalRoomPrice,
		booking.TaxAmount,
		booking.GrandTotal,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE id = $1
	`

	return r.scanBooking(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetForUpdate locks the booking row so concurrent transitions (a cancel racing the
// expiry sweep, say) serialize on the state check.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE id = $1
	FOR UPDATE
	`

	return r.scanBooking(q(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *BookingRepository) MarkHold(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	query := `
	UPDATE bookings
	SET status = $2, reservation_code = $3, hold_expires_at = $4, updated_at = NOW()
	WHERE id = $1 AND status = $5
	`

	return r.execTransition(ctx, "mark hold", query, id, domain.BookingHold, code, expiresAt, domain.BookingDraft)
}

func (r *BookingRepository) MarkReleased(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	query := `
	UPDATE bookings
	SET status = $2, hold_expires_at = NULL, updated_at = NOW()
	WHERE id = $1 AND status = $3
	`

	return r.execTransition(ctx, "mark released", query, id, status, domain.BookingHold)
}

func (r *BookingRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	query := `
	UPDATE bookings
	SET status = $2, hold_expires_at = NULL, updated_at = NOW()
	WHERE id = $1 AND status = $3
	`

	return r.execTransition(ctx, "mark confirmed", query, id, domain.BookingConfirmed, domain.BookingHold)
}

func (r *BookingRepository) SetPaymentMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) error {
	query := `
	UPDATE bookings
	SET payment_method = $2, updated_at = NOW()
	WHERE id = $1
	`

	result, err := q(ctx, r.db).ExecContext(ctx, query, id, method)
	if err != nil {
		return fmt.Errorf("set payment method: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func (r *BookingRepository) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = $1 AND hold_expires_at < $2
	ORDER BY hold_expires_at ASC
	LIMIT $3
	`

	rows, err := q(ctx, r.db).QueryContext(ctx, query, domain.BookingHold, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("find expired holds: %w", err)
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired hold: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// execTransition applies a guarded state change. Zero rows affected means the booking
// was no longer in the expected state; callers verified state under lock first, so
// this is a defect guard, not a business branch.
func (r *BookingRepository) execTransition(ctx context.Context, op, query string, args ...any) error {
	result, err := q(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("%s: booking not in expected state", op)
	}

	return nil
}

func (r *BookingRepository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var paymentMethod sql.NullString
	var reservationCode sql.NullString
	var holdExpiresAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.HotelID,
		&booking.RoomTypeID,
		&booking.RatePlanID,
		&booking.CheckinDate,
		&booking.CheckoutDate,
		&booking.Nights,
		&booking.Rooms,
		&booking.GuestName,
		&booking.GuestEmail,
		&booking.GuestPhone,
		&booking.TotalRoomPrice,
		&booking.TaxAmount,
		&booking.GrandTotal,
		&paymentMethod,
		&booking.Status,
		&reservationCode,
		&holdExpiresAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, fmt.Errorf("scan booking: %w", err)
	}

	booking.CheckinDate = domain.DateOnly(booking.CheckinDate)
	booking.CheckoutDate = domain.DateOnly(booking.CheckoutDate)

	if paymentMethod.Valid && paymentMethod.String != "" {
		method := domain.PaymentMethod(paymentMethod.String)
		booking.PaymentMethod = &method
	}

	if reservationCode.Valid && reservationCode.String != "" {
		code := reservationCode.String
		booking.ReservationCode = &code
	}

	if holdExpiresAt.Valid {
		booking.HoldExpiresAt = &holdExpiresAt.Time
	}

	return &booking, nil
}
