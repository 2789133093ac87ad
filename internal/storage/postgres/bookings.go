package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

type bookingRepository struct {
	storage *Storage
}

const bookingColumns = `id, user_id, service_ids, total_amount, currency, status, payment_status, gateway_order_id,
        COALESCE(gateway_payment_id, ''), COALESCE(gateway_signature, ''),
        event_date, event_type, guest_count, venue_name, venue_address, venue_city, venue_state, venue_zip,
        special_requests, created_at, updated_at`

// Open payment with untouched fulfilment: the only state a payment callback may act on.
const openBookingPredicate = `status = 'Pending' AND payment_status IN ('pending', 'processing')`

const upcomingLimit = 5

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.ServiceIDs, &b.TotalAmount, &b.Currency, &b.Status, &b.PaymentStatus, &b.GatewayOrderID,
		&b.GatewayPaymentID, &b.GatewaySignature,
		&b.Event.Date, &b.Event.Type, &b.Event.GuestCount,
		&b.Event.Venue.Name, &b.Event.Venue.Address, &b.Event.Venue.City, &b.Event.Venue.State, &b.Event.Venue.Zip,
		&b.Event.SpecialRequests, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *bookingRepository) query(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	const query = `INSERT INTO bookings (
            id, user_id, service_ids, total_amount, currency, status, payment_status, gateway_order_id,
            event_date, event_type, guest_count, venue_name, venue_address, venue_city, venue_state, venue_zip, special_requests)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING created_at, updated_at`

	created := *booking
	ev := booking.Event
	err := r.storage.pool.QueryRow(ctx, query,
		booking.ID, booking.UserID, booking.ServiceIDs, booking.TotalAmount, booking.Currency,
		booking.Status, booking.PaymentStatus, booking.GatewayOrderID,
		ev.Date, ev.Type, ev.GuestCount, ev.Venue.Name, ev.Venue.Address, ev.Venue.City, ev.Venue.State, ev.Venue.Zip,
		ev.SpecialRequests,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	return scanBooking(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *bookingRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE gateway_order_id=$1`
	return scanBooking(r.storage.pool.QueryRow(ctx, query, gatewayOrderID))
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`
	return r.query(ctx, query, userID)
}

func (r *bookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conds = append(conds, fmt.Sprintf("payment_status=$%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + bookingColumns + ` FROM bookings`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.query(ctx, sb.String(), args...)
}

// settle runs a conditional transition keyed by gateway order id. When the
// row no longer matches, the current state is re-read so the caller can tell
// a replay from a conflict.
func (r *bookingRepository) settle(ctx context.Context, gatewayOrderID, query string, args ...any) (*model.Booking, bool, error) {
	booking, err := scanBooking(r.storage.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return booking, true, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, err
	}

	current, err := r.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *bookingRepository) ConfirmPayment(ctx context.Context, callback model.PaymentCallback) (*model.Booking, bool, error) {
	const query = `UPDATE bookings
        SET payment_status='completed', status='Confirmed',
            gateway_payment_id=$2, gateway_signature=$3, updated_at=NOW()
        WHERE gateway_order_id=$1 AND ` + openBookingPredicate + `
        RETURNING ` + bookingColumns
	return r.settle(ctx, callback.GatewayOrderID, query,
		callback.GatewayOrderID, callback.GatewayPaymentID, callback.Signature)
}

func (r *bookingRepository) FailPayment(ctx context.Context, gatewayOrderID string) (*model.Booking, bool, error) {
	const query = `UPDATE bookings SET payment_status='failed', updated_at=NOW()
        WHERE gateway_order_id=$1 AND payment_status IN ('pending', 'processing')
        RETURNING ` + bookingColumns
	return r.settle(ctx, gatewayOrderID, query, gatewayOrderID)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	const query = `UPDATE bookings SET status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$2
        RETURNING ` + bookingColumns
	booking, err := scanBooking(r.storage.pool.QueryRow(ctx, query, id, from, to))
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: booking is %s, expected %s", domainErrors.ErrInvalidTransition, current.Status, from)
}

func (r *bookingRepository) CancelStale(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	const selectQuery = `SELECT ` + bookingColumns + ` FROM bookings
        WHERE ` + openBookingPredicate + ` AND created_at < $1
        ORDER BY created_at
        LIMIT $2
        FOR UPDATE SKIP LOCKED`
	const cancelQuery = `UPDATE bookings SET status='Cancelled', updated_at=NOW() WHERE id=$1`

	var cancelled []model.Booking
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, cutoff, limit)
		if err != nil {
			return err
		}
		stale, err := collectBookings(rows)
		if err != nil {
			return err
		}

		for _, b := range stale {
			if _, err := tx.Exec(ctx, cancelQuery, b.ID); err != nil {
				return err
			}
			b.Status = model.BookingStatusCancelled
			cancelled = append(cancelled, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *bookingRepository) Stats(ctx context.Context, now time.Time) (*model.BookingStats, error) {
	const countsQuery = `SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status='Pending'),
            COUNT(*) FILTER (WHERE status='Confirmed'),
            COUNT(*) FILTER (WHERE status='Completed'),
            COUNT(*) FILTER (WHERE status='Cancelled'),
            COUNT(*) FILTER (WHERE created_at >= $1),
            COALESCE(SUM(total_amount) FILTER (WHERE payment_status='completed'), 0)::BIGINT
        FROM bookings`
	const upcomingQuery = `SELECT ` + bookingColumns + ` FROM bookings
        WHERE event_date >= $1 AND status IN ('Pending', 'Confirmed')
        ORDER BY event_date
        LIMIT $2`

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var stats model.BookingStats
	err := r.storage.pool.QueryRow(ctx, countsQuery, monthStart).Scan(
		&stats.Total, &stats.Pending, &stats.Confirmed, &stats.Completed, &stats.Cancelled,
		&stats.CreatedThisMonth, &stats.Revenue,
	)
	if err != nil {
		return nil, err
	}

	upcoming, err := r.query(ctx, upcomingQuery, now, upcomingLimit)
	if err != nil {
		return nil, err
	}
	stats.Upcoming = upcoming
	return &stats, nil
}

func (r *bookingRepository) Export(ctx context.Context) ([]model.BookingExportRow, error) {
	const query = `SELECT b.id, u.name, u.email, u.phone, b.event_date, b.event_type, b.guest_count, b.venue_name,
            ARRAY(
                SELECT s.name FROM unnest(b.service_ids) WITH ORDINALITY AS sid(id, ord)
                JOIN services s ON s.id = sid.id
                ORDER BY sid.ord
            ),
            b.total_amount, b.status, b.payment_status, b.created_at
        FROM bookings b
        JOIN users u ON u.id = b.user_id
        ORDER BY b.created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.BookingExportRow
	for rows.Next() {
		var row model.BookingExportRow
		if err := rows.Scan(
			&row.BookingID, &row.CustomerName, &row.CustomerEmail, &row.CustomerPhone,
			&row.EventDate, &row.EventType, &row.GuestCount, &row.Venue, &row.Services,
			&row.TotalAmount, &row.Status, &row.PaymentStatus, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
