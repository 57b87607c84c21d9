package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stats is the admin dashboard summary. Revenue counts confirmed and
// completed bookings created in the current calendar month.
type Stats struct {
	TotalBookings  int64 `json:"total_bookings"`
	AwaitingAction int64 `json:"awaiting_action"`
	Confirmed      int64 `json:"confirmed"`
	EventsToday    int64 `json:"events_today"`
	UpcomingEvents int64 `json:"upcoming_events"`
	MonthlyRevenue int64 `json:"monthly_revenue"`
}

type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const statsQuery = `
SELECT
	count(*),
	count(*) FILTER (WHERE status IN ('action-pending', 'change-requested', 'approved-tier1', 'payment-requested', 'approved-tier2')),
	count(*) FILTER (WHERE status = 'confirmed'),
	count(*) FILTER (WHERE event_date = current_date AND status IN ('confirmed', 'completed')),
	count(*) FILTER (WHERE event_date > current_date AND status = 'confirmed'),
	coalesce(sum(total_amount) FILTER (
		WHERE status IN ('confirmed', 'completed')
		AND date_trunc('month', created_at) = date_trunc('month', now())
	), 0)
FROM bookings`

func (r *pgxRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, statsQuery).Scan(
		&s.TotalBookings,
		&s.AwaitingAction,
		&s.Confirmed,
		&s.EventsToday,
		&s.UpcomingEvents,
		&s.MonthlyRevenue,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
