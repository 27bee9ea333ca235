package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

type RatePlanRepository struct {
	db *sql.DB
}

func NewRatePlanRepository(db *sql.DB) *RatePlanRepository {
	return &RatePlanRepository{db: db}
}

func (r *RatePlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RatePlan, error) {
	query := `
	SELECT id, hotel_id, name, requires_prepayment
	FROM rate_plans
	WHERE id = $1
	`

	var plan domain.RatePlan
	err := q(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&plan.HotelID,
		&plan.Name,
		&plan.RequiresPrepayment,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRatePlanNotFound
		}

		return nil, fmt.Errorf("get rate plan: %w", err)
	}

	return &plan, nil
}
