package hall

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Hall, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Hall, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const hallColumns = `
	id, name,
	capacity_minimum, capacity_maximum,
	price_morning, price_afternoon, price_evening, price_full_day,
	is_active, created_at
`

func scanHall(row pgx.Row) (*Hall, error) {
	var h Hall
	err := row.Scan(
		&h.ID, &h.Name,
		&h.Capacity.Minimum, &h.Capacity.Maximum,
		&h.Pricing.Morning, &h.Pricing.Afternoon, &h.Pricing.Evening, &h.Pricing.FullDay,
		&h.IsActive, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Hall, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.halls WHERE id = $1`, hallColumns)

	h, err := scanHall(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hall failed: %w", err)
	}
	return h, nil
}

func (r *pgxRepository) GetByIDs(ctx context.Context, ids []string) ([]*Hall, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.halls WHERE id = ANY($1)`, hallColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get halls failed: %w", err)
	}
	defer rows.Close()

	var halls []*Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hall failed: %w", err)
		}
		halls = append(halls, h)
	}

	return halls, rows.Err()
}
