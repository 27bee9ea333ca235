package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// LockDays takes exclusive row locks in ascending date order. Every caller locks in
// this same order, which keeps overlapping stays from deadlocking each other.
func (r *InventoryRepository) LockDays(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time) ([]domain.InventoryDay, error) {
	query := `
	SELECT room_type_id, date, total_rooms, available_rooms, blocked_rooms, rooms_sold, stop_sell
	FROM inventory_days
	WHERE room_type_id = $1 AND date = ANY($2::date[])
	ORDER BY date ASC
	FOR UPDATE
	`

	rows, err := q(ctx, r.db).QueryContext(ctx, query, roomTypeID, pq.Array(formatDates(dates)))
	if err != nil {
		return nil, fmt.Errorf("lock inventory days: %w", err)
	}

	defer rows.Close()

	var days []domain.InventoryDay
	for rows.Next() {
		var day domain.InventoryDay
		if err := rows.Scan(
			&day.RoomTypeID,
			&day.Date,
			&day.TotalRooms,
			&day.AvailableRooms,
			&day.BlockedRooms,
			&day.RoomsSold,
			&day.StopSell,
		); err != nil {
			return nil, fmt.Errorf("scan inventory day: %w", err)
		}

		day.Date = domain.DateOnly(day.Date)
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock inventory days: %w", err)
	}

	return days, nil
}

func (r *InventoryRepository) UpdateCounts(ctx context.Context, day *domain.InventoryDay) error {
	query := `
	UPDATE inventory_days
	SET total_rooms = $3,
		available_rooms = $4,
		blocked_rooms = $5,
		rooms_sold = $6,
		stop_sell = $7,
		updated_at = NOW()
	WHERE room_type_id = $1 AND date = $2
	`

	result, err := q(ctx, r.db).ExecContext(ctx, query,
		day.RoomTypeID,
		day.Date.Format(domain.DateLayout),
		day.TotalRooms,
		day.AvailableRooms,
		day.BlockedRooms,
		day.RoomsSold,
		day.StopSell,
	)
	if err != nil {
		return fmt.Errorf("update inventory counts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("update inventory counts: no row for room type %s on %s",
			day.RoomTypeID, day.Date.Format(domain.DateLayout))
	}

	return nil
}

func (r *InventoryRepository) CreateDays(ctx context.Context, days []domain.InventoryDay) (int, error) {
	query := `
	INSERT INTO inventory_days (room_type_id, date, total_rooms, available_rooms, blocked_rooms, rooms_sold, stop_sell)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (room_type_id, date) DO NOTHING
	`

	stmt, err := q(ctx, r.db).PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare provision statement: %w", err)
	}

	defer stmt.Close()

	created := 0
	for _, day := range days {
		result, err := stmt.ExecContext(ctx,
			day.RoomTypeID,
			day.Date.Format(domain.DateLayout),
			day.TotalRooms,
			day.AvailableRooms,
			day.BlockedRooms,
			day.RoomsSold,
			day.StopSell,
		)
		if err != nil {
			return created, fmt.Errorf("provision inventory day %s: %w", day.Date.Format(domain.DateLayout), err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return created, err
		}

		created += int(affected)
	}

	return created, nil
}

func (r *InventoryRepository) SetStopSell(ctx context.Context, roomTypeID uuid.UUID, dates []time.Time, stopSell bool) error {
	query := `
	UPDATE inventory_days
	SET stop_sell = $3, updated_at = NOW()
	WHERE room_type_id = $1 AND date = ANY($2::date[])
	`

	_, err := q(ctx, r.db).ExecContext(ctx, query, roomTypeID, pq.Array(formatDates(dates)), stopSell)
	if err != nil {
		return fmt.Errorf("set stop sell: %w", err)
	}

	return nil
}

func (r *InventoryRepository) ListDays(ctx context.Context, roomTypeID uuid.UUID) ([]domain.InventoryDay, error) {
	query := `
	SELECT room_type_id, date, total_rooms, available_rooms, blocked_rooms, rooms_sold, stop_sell
	FROM inventory_days
	WHERE room_type_id = $1
	ORDER BY date ASC
	`

	rows, err := q(ctx, r.db).QueryContext(ctx, query, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("list inventory days: %w", err)
	}

	defer rows.Close()

	var days []domain.InventoryDay
	for rows.Next() {
		var day domain.InventoryDay
		if err := rows.Scan(
			&day.RoomTypeID,
			&day.Date,
			&day.TotalRooms,
			&day.AvailableRooms,
			&day.BlockedRooms,
			&day.RoomsSold,
			&day.StopSell,
		); err != nil {
			return nil, fmt.Errorf("scan inventory day: %w", err)
		}

		day.Date = domain.DateOnly(day.Date)
		days = append(days, day)
	}

	return days, rows.Err()
}

func formatDates(dates []time.Time) []string {
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format(domain.DateLayout)
	}
	return formatted
}
