package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create persists the booking together with its hall references and
	// slot claims in one transaction. A unique violation on the claims
	// table is reported as ErrSlotConflict; this is the hard second line
	// of defense behind HasSlotConflict.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// HasSlotConflict checks whether any non-cancelled, non-rejected booking
	// occupies the requested slot on any of the halls for that date.
	// excludeBookingID is used when re-checking a booking being edited.
	HasSlotConflict(ctx context.Context, hallIDs []string, date time.Time, slot Slot, excludeBookingID string) (bool, error)

	// BookedSlots returns the slots taken on a hall/date by non-cancelled,
	// non-rejected bookings.
	BookedSlots(ctx context.Context, hallID string, date time.Time) ([]Slot, error)

	// Update persists the booking conditioned on the row still being in
	// expectedStatus; a concurrent transition makes it fail with
	// ErrStaleState so the loser can retry against the refreshed booking.
	// refreshClaims re-derives the slot claims (after a date/slot edit);
	// claims are always released when the new status is cancelled or rejected.
	Update(ctx context.Context, b *Booking, expectedStatus Status, refreshClaims bool) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return fmt.Errorf("marshal add-ons failed: %w", err)
	}

	const insertBooking = `
		INSERT INTO public.bookings (
			code, user_id, event_date, time_slot,
			event_type, event_description, guest_count,
			contact_name, contact_phone, contact_email, contact_alt_phone,
			special_requests, add_ons,
			base_price, discount, taxes, total_amount,
			payment_status, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, insertBooking,
		b.Code, b.UserID, b.EventDate, b.TimeSlot,
		b.EventType, b.EventDescription, b.GuestCount,
		b.Contact.Name, b.Contact.Phone, b.Contact.Email, b.Contact.AlternatePhone,
		b.SpecialRequests, addOns,
		b.Pricing.BasePrice, b.Pricing.Discount, b.Pricing.Taxes, b.Pricing.TotalAmount,
		b.Payment.Status, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	for _, h := range b.Halls {
		if _, err := tx.Exec(ctx,
			`INSERT INTO public.booking_halls (booking_id, hall_id) VALUES ($1, $2)`,
			b.ID, h.ID,
		); err != nil {
			return fmt.Errorf("link booking hall failed: %w", err)
		}
	}

	if err := insertSlotClaims(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

// insertSlotClaims claims the physical sub-slots the booking occupies on
// each hall. The unique index on (hall_id, event_date, slot) serializes
// conflicting creations across customers targeting the same slot.
func insertSlotClaims(ctx context.Context, tx pgx.Tx, b *Booking) error {
	for _, h := range b.Halls {
		for _, slot := range b.TimeSlot.occupies() {
			_, err := tx.Exec(ctx,
				`INSERT INTO public.booking_slot_claims (booking_id, hall_id, event_date, slot) VALUES ($1, $2, $3, $4)`,
				b.ID, h.ID, b.EventDate, slot,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return ErrSlotConflict
				}
				return fmt.Errorf("claim slot failed: %w", err)
			}
		}
	}
	return nil
}

const bookingColumns = `
	b.id, b.code, b.user_id,
	b.event_date, b.time_slot, b.event_type, b.event_description, b.guest_count,
	b.contact_name, b.contact_phone, b.contact_email, b.contact_alt_phone,
	b.special_requests, b.add_ons, b.admin_notes,
	b.base_price, b.discount, b.taxes, b.total_amount,
	b.payment_status, b.payment_method, b.payment_txn_id, b.payment_paid_at, b.payment_paid_amount,
	b.status,
	b.tier1_status, b.tier1_note, b.tier1_by, b.tier1_at,
	b.tier2_status, b.tier2_note, b.tier2_by, b.tier2_at,
	b.tier3_status, b.tier3_note, b.tier3_by, b.tier3_at,
	b.cancelled_at, b.cancelled_by, b.cancel_reason, b.refund_amount, b.refund_status,
	b.confirmed_by, b.confirmed_at,
	b.created_at, b.updated_at,
	array_agg(h.id::text ORDER BY h.name) AS hall_ids,
	array_agg(h.name ORDER BY h.name) AS hall_names
`

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	var addOns []byte
	var hallIDs, hallNames []string

	dest := []any{
		&b.ID, &b.Code, &b.UserID,
		&b.EventDate, &b.TimeSlot, &b.EventType, &b.EventDescription, &b.GuestCount,
		&b.Contact.Name, &b.Contact.Phone, &b.Contact.Email, &b.Contact.AlternatePhone,
		&b.SpecialRequests, &addOns, &b.AdminNotes,
		&b.Pricing.BasePrice, &b.Pricing.Discount, &b.Pricing.Taxes, &b.Pricing.TotalAmount,
		&b.Payment.Status, &b.Payment.Method, &b.Payment.TransactionID, &b.Payment.PaidAt, &b.Payment.PaidAmount,
		&b.Status,
		&b.Workflow.Tier1.Status, &b.Workflow.Tier1.Note, &b.Workflow.Tier1.ProcessedBy, &b.Workflow.Tier1.ProcessedAt,
		&b.Workflow.Tier2.Status, &b.Workflow.Tier2.Note, &b.Workflow.Tier2.ProcessedBy, &b.Workflow.Tier2.ProcessedAt,
		&b.Workflow.Tier3.Status, &b.Workflow.Tier3.Note, &b.Workflow.Tier3.ProcessedBy, &b.Workflow.Tier3.ProcessedAt,
		&b.Cancellation.CancelledAt, &b.Cancellation.CancelledBy, &b.Cancellation.Reason,
		&b.Cancellation.RefundAmount, &b.Cancellation.RefundStatus,
		&b.ConfirmedBy, &b.ConfirmedAt,
		&b.CreatedAt, &b.UpdatedAt,
		&hallIDs, &hallNames,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &b.AddOns); err != nil {
			return nil, fmt.Errorf("unmarshal add-ons failed: %w", err)
		}
	}

	b.Halls = make([]HallRef, len(hallIDs))
	for i := range hallIDs {
		b.Halls[i] = HallRef{ID: hallIDs[i], Name: hallNames[i]}
	}

	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM public.bookings b
		JOIN public.booking_halls bh ON bh.booking_id = b.id
		JOIN public.halls h ON h.id = bh.hall_id
		WHERE b.id = $1
		GROUP BY b.id
	`, bookingColumns)

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns + ", count(*) OVER() AS total_count").
		From("public.bookings b").
		Join("public.booking_halls bh ON bh.booking_id = b.id").
		Join("public.halls h ON h.id = bh.hall_id").
		GroupBy("b.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.HallID != "" {
		query = query.Where(
			squirrel.Expr("b.id IN (SELECT booking_id FROM public.booking_halls WHERE hall_id = ?)", filter.HallID),
		)
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.event_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.event_date": *filter.DateTo})
	}

	orderBy := "b.created_at"
	switch filter.SortBy {
	case "event_date", "status", "total_amount":
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "asc" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, total, rows.Err()
}

func (r *pgxRepository) HasSlotConflict(ctx context.Context, hallIDs []string, date time.Time, slot Slot, excludeBookingID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings b").
		Join("public.booking_halls bh ON bh.booking_id = b.id").
		Where(squirrel.Expr("bh.hall_id = ANY(?)", hallIDs)).
		Where(squirrel.Eq{"b.event_date": date}).
		Where(squirrel.NotEq{"b.status": []Status{StatusCancelled, StatusRejected}})

	// Full-day conflicts with every slot; a specific slot conflicts with
	// the same slot or an existing full-day booking.
	if slot != SlotFullDay {
		subQuery = subQuery.Where(squirrel.Eq{"b.time_slot": []Slot{slot, SlotFullDay}})
	}

	if excludeBookingID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"b.id": excludeBookingID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build slot conflict query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot conflict failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) BookedSlots(ctx context.Context, hallID string, date time.Time) ([]Slot, error) {
	const query = `
		SELECT b.time_slot
		FROM public.bookings b
		JOIN public.booking_halls bh ON bh.booking_id = b.id
		WHERE bh.hall_id = $1
		  AND b.event_date = $2
		  AND b.status NOT IN ('cancelled', 'rejected')
	`
	rows, err := r.pool.Query(ctx, query, hallID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked slots failed: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan booked slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking, expectedStatus Status, refreshClaims bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	addOns, err := json.Marshal(b.AddOns)
	if err != nil {
		return fmt.Errorf("marshal add-ons failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("event_date", b.EventDate).
		Set("time_slot", b.TimeSlot).
		Set("event_type", b.EventType).
		Set("event_description", b.EventDescription).
		Set("guest_count", b.GuestCount).
		Set("contact_name", b.Contact.Name).
		Set("contact_phone", b.Contact.Phone).
		Set("contact_email", b.Contact.Email).
		Set("contact_alt_phone", b.Contact.AlternatePhone).
		Set("special_requests", b.SpecialRequests).
		Set("add_ons", addOns).
		Set("admin_notes", b.AdminNotes).
		Set("base_price", b.Pricing.BasePrice).
		Set("discount", b.Pricing.Discount).
		Set("taxes", b.Pricing.Taxes).
		Set("total_amount", b.Pricing.TotalAmount).
		Set("payment_status", b.Payment.Status).
		Set("payment_method", b.Payment.Method).
		Set("payment_txn_id", b.Payment.TransactionID).
		Set("payment_paid_at", b.Payment.PaidAt).
		Set("payment_paid_amount", b.Payment.PaidAmount).
		Set("status", b.Status).
		Set("tier1_status", b.Workflow.Tier1.Status).
		Set("tier1_note", b.Workflow.Tier1.Note).
		Set("tier1_by", b.Workflow.Tier1.ProcessedBy).
		Set("tier1_at", b.Workflow.Tier1.ProcessedAt).
		Set("tier2_status", b.Workflow.Tier2.Status).
		Set("tier2_note", b.Workflow.Tier2.Note).
		Set("tier2_by", b.Workflow.Tier2.ProcessedBy).
		Set("tier2_at", b.Workflow.Tier2.ProcessedAt).
		Set("tier3_status", b.Workflow.Tier3.Status).
		Set("tier3_note", b.Workflow.Tier3.Note).
		Set("tier3_by", b.Workflow.Tier3.ProcessedBy).
		Set("tier3_at", b.Workflow.Tier3.ProcessedAt).
		Set("cancelled_at", b.Cancellation.CancelledAt).
		Set("cancelled_by", b.Cancellation.CancelledBy).
		Set("cancel_reason", b.Cancellation.Reason).
		Set("refund_amount", b.Cancellation.RefundAmount).
		Set("refund_status", b.Cancellation.RefundStatus).
		Set("confirmed_by", b.ConfirmedBy).
		Set("confirmed_at", b.ConfirmedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "status": expectedStatus}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the row is gone or another writer won the transition.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)`, b.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check booking exists failed: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrStaleState
	}

	releaseClaims := b.Status == StatusCancelled || b.Status == StatusRejected
	if refreshClaims || releaseClaims {
		if _, err := tx.Exec(ctx,
			`DELETE FROM public.booking_slot_claims WHERE booking_id = $1`, b.ID,
		); err != nil {
			return fmt.Errorf("release slot claims failed: %w", err)
		}
	}
	if refreshClaims && !releaseClaims {
		if err := insertSlotClaims(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update booking failed: %w", err)
	}
	return nil
}
