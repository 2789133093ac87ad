package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

var (
	userCols    = []string{"id", "name", "email", "phone", "password_hash", "role", "created_at"}
	serviceCols = []string{"id", "name", "description", "category", "pricing_type", "price", "available", "created_at", "updated_at"}
	bookingCols = []string{
		"id", "user_id", "service_ids", "total_amount", "currency", "status", "payment_status", "gateway_order_id",
		"gateway_payment_id", "gateway_signature", "event_date", "event_type", "guest_count",
		"venue_name", "venue_address", "venue_city", "venue_state", "venue_zip", "special_requests", "created_at", "updated_at",
	}
)

func bookingRow(id string, status model.BookingStatus, payment model.PaymentStatus, paymentID string) []any {
	now := time.Now()
	return []any{
		id, "user-1", []string{"svc-1", "svc-2"}, model.Money(150000), model.CurrencyINR, status, payment, "order_" + id,
		paymentID, "", nil, model.EventWedding, 200,
		"Taj", "Marine Drive", "Mumbai", "MH", "400001", "", now, now,
	}
}

func bookingRows(rows ...[]any) *pgxmockv3.Rows {
	r := pgxmockv3.NewRows(bookingCols)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func TestUserRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	createdAt := time.Now()
	user := &model.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Phone: "99", PasswordHash: "hash", Role: model.RoleUser}

	mock.ExpectQuery("INSERT INTO users").WithArgs("u1", "Asha", "asha@example.com", "99", "hash", model.RoleUser).WillReturnRows(
		pgxmockv3.NewRows([]string{"created_at"}).AddRow(createdAt),
	)
	created, err := repo.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "u1" || !created.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected user: %+v", created)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs("u1", "Asha", "asha@example.com", "99", "hash", model.RoleUser).WillReturnError(&pgconn.PgError{Code: "23505"})
	if _, err := repo.Create(context.Background(), user); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs("u1", "Asha", "asha@example.com", "99", "hash", model.RoleUser).WillReturnError(errors.New("other"))
	if _, err := repo.Create(context.Background(), user); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM users WHERE email=").WithArgs("asha@example.com").WillReturnRows(
		pgxmockv3.NewRows(userCols).AddRow("u1", "Asha", "asha@example.com", "99", "hash", model.RoleAdmin, createdAt))
	got, err := repo.GetByEmail(context.Background(), "asha@example.com")
	if err != nil || got.Role != model.RoleAdmin {
		t.Fatalf("unexpected result: %+v err=%v", got, err)
	}

	mock.ExpectQuery("FROM users WHERE email=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByEmail(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs("u1").WillReturnRows(
		pgxmockv3.NewRows(userCols).AddRow("u1", "Asha", "asha@example.com", "99", "hash", model.RoleUser, createdAt))
	if _, err := repo.GetByID(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("FROM users WHERE id=").WithArgs("u2").WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(context.Background(), "u2"); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestServiceRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &serviceRepository{storage: storage}

	now := time.Now()
	svc := &model.Service{ID: "s1", Name: "Photography", Category: model.CategoryPhotography, PricingType: model.PricingFixed, Price: 100000, Available: true}

	mock.ExpectQuery("INSERT INTO services").
		WithArgs("s1", "Photography", "", model.CategoryPhotography, model.PricingFixed, model.Money(100000), true).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	created, err := repo.Create(context.Background(), svc)
	if err != nil || created.ID != "s1" {
		t.Fatalf("unexpected result: %+v err=%v", created, err)
	}

	mock.ExpectQuery("FROM services WHERE id = ANY").WithArgs([]string{"s1", "s2"}).WillReturnRows(
		pgxmockv3.NewRows(serviceCols).
			AddRow("s1", "Photography", "", model.CategoryPhotography, model.PricingFixed, model.Money(100000), true, now, now).
			AddRow("s2", "Catering", "", model.CategoryCatering, model.PricingPerPerson, model.Money(50000), true, now, now),
	)
	list, err := repo.GetByIDs(context.Background(), []string{"s1", "s2"})
	if err != nil || len(list) != 2 || list[1].Price != 50000 {
		t.Fatalf("unexpected result: %+v err=%v", list, err)
	}

	if list, err := repo.GetByIDs(context.Background(), nil); err != nil || list != nil {
		t.Fatalf("expected no query for empty ids, got %+v err=%v", list, err)
	}

	mock.ExpectQuery("FROM services WHERE available").WillReturnRows(
		pgxmockv3.NewRows(serviceCols).AddRow("s1", "Photography", "", model.CategoryPhotography, model.PricingFixed, model.Money(100000), true, now, now),
	)
	if list, err := repo.ListAvailable(context.Background()); err != nil || len(list) != 1 {
		t.Fatalf("unexpected result: %+v err=%v", list, err)
	}

	mock.ExpectQuery("FROM services WHERE available").WillReturnRows(
		pgxmockv3.NewRows(serviceCols).AddRow("bad", "Photography", "", model.CategoryPhotography, model.PricingFixed, "not money", true, now, now),
	)
	if _, err := repo.ListAvailable(context.Background()); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("UPDATE services SET available").WithArgs("s1", false).WillReturnRows(
		pgxmockv3.NewRows(serviceCols).AddRow("s1", "Photography", "", model.CategoryPhotography, model.PricingFixed, model.Money(100000), false, now, now),
	)
	updated, err := repo.SetAvailability(context.Background(), "s1", false)
	if err != nil || updated.Available {
		t.Fatalf("unexpected result: %+v err=%v", updated, err)
	}

	mock.ExpectQuery("UPDATE services SET available").WithArgs("nope", true).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.SetAvailability(context.Background(), "nope", true); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM services WHERE id=").WithArgs("s9").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "s9"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestServiceRepositoryRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &serviceRepository{storage: storage}

	if _, err := repo.ListAvailable(context.Background()); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestBookingRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}

	booking := model.NewPendingBooking("b1", "user-1", []string{"svc-1"}, 150000, "order_1", model.EventDetails{
		Type:       model.EventWedding,
		GuestCount: 100,
		Venue:      model.Venue{City: "Pune"},
	})
	args := []any{
		"b1", "user-1", []string{"svc-1"}, model.Money(150000), model.CurrencyINR,
		model.BookingStatusPending, model.PaymentStatusPending, "order_1",
		(*time.Time)(nil), model.EventWedding, 100, "", "", "Pune", "", "", "",
	}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings").WithArgs(args...).WillReturnRows(
		pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	created, err := repo.Create(context.Background(), booking)
	if err != nil || !created.CreatedAt.Equal(now) || created.GatewayOrderID != "order_1" {
		t.Fatalf("unexpected result: %+v err=%v", created, err)
	}

	mock.ExpectQuery("INSERT INTO bookings").WithArgs(args...).WillReturnError(&pgconn.PgError{Code: "23505"})
	if _, err := repo.Create(context.Background(), booking); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryLookups(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("b1").WillReturnRows(
		bookingRows(bookingRow("b1", model.BookingStatusPending, model.PaymentStatusPending, "")))
	b, err := repo.GetByID(context.Background(), "b1")
	if err != nil || b.ID != "b1" || len(b.ServiceIDs) != 2 || b.Event.Venue.City != "Mumbai" || b.Event.Date != nil {
		t.Fatalf("unexpected booking: %+v err=%v", b, err)
	}

	mock.ExpectQuery("FROM bookings WHERE gateway_order_id=").WithArgs("order_x").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByGatewayOrderID(context.Background(), "order_x"); !errors.Is(err, domainErrors.ErrBookingNotFound) {
		t.Fatalf("expected booking not found, got %v", err)
	}

	mock.ExpectQuery("FROM bookings WHERE user_id=").WithArgs("user-1").WillReturnRows(bookingRows(
		bookingRow("b1", model.BookingStatusPending, model.PaymentStatusPending, ""),
		bookingRow("b2", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay_2"),
	))
	list, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil || len(list) != 2 || list[1].GatewayPaymentID != "pay_2" {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	mock.ExpectQuery("FROM bookings WHERE user_id=").WithArgs("user-2").WillReturnRows(
		bookingRows(
			bookingRow("b1", model.BookingStatusPending, model.PaymentStatusPending, ""),
			bookingRow("b2", model.BookingStatusPending, model.PaymentStatusPending, ""),
		).RowError(1, errors.New("row err")))
	if _, err := repo.ListByUser(context.Background(), "user-2"); err == nil || err.Error() != "row err" {
		t.Fatalf("expected row err, got %v", err)
	}

	mock.ExpectQuery("FROM bookings WHERE user_id=").WithArgs("user-3").WillReturnError(errors.New("query"))
	if _, err := repo.ListByUser(context.Background(), "user-3"); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}

	mock.ExpectQuery(`FROM bookings ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).WithArgs(50, 0).WillReturnRows(bookingRows())
	if list, err := repo.List(context.Background(), model.BookingFilter{Limit: 50}); err != nil || len(list) != 0 {
		t.Fatalf("unexpected result: %+v err=%v", list, err)
	}

	mock.ExpectQuery(`WHERE status=\$1 AND payment_status=\$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(model.BookingStatusConfirmed, model.PaymentStatusCompleted, 10, 20).
		WillReturnRows(bookingRows(bookingRow("b2", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay")))
	list, err := repo.List(context.Background(), model.BookingFilter{
		Status:        model.BookingStatusConfirmed,
		PaymentStatus: model.PaymentStatusCompleted,
		Limit:         10,
		Offset:        20,
	})
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected result: %+v err=%v", list, err)
	}

	mock.ExpectQuery(`WHERE payment_status=\$1 ORDER BY`).WithArgs(model.PaymentStatusFailed, 5, 0).WillReturnRows(bookingRows())
	if _, err := repo.List(context.Background(), model.BookingFilter{PaymentStatus: model.PaymentStatusFailed, Limit: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryConfirmPayment(t *testing.T) {
	callback := model.PaymentCallback{GatewayOrderID: "order_b1", GatewayPaymentID: "pay_1", Signature: "sig"}

	t.Run("wins transition", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &bookingRepository{storage: storage}

		mock.ExpectQuery("SET payment_status='completed', status='Confirmed'").WithArgs("order_b1", "pay_1", "sig").WillReturnRows(
			bookingRows(bookingRow("b1", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay_1")))
		b, transitioned, err := repo.ConfirmPayment(context.Background(), callback)
		if err != nil || !transitioned || b.PaymentStatus != model.PaymentStatusCompleted {
			t.Fatalf("unexpected result: %+v transitioned=%v err=%v", b, transitioned, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations not met: %v", err)
		}
	})

	t.Run("replay returns current state", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &bookingRepository{storage: storage}

		mock.ExpectQuery("SET payment_status='completed', status='Confirmed'").WithArgs("order_b1", "pay_1", "sig").WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("FROM bookings WHERE gateway_order_id=").WithArgs("order_b1").WillReturnRows(
			bookingRows(bookingRow("b1", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay_1")))
		b, transitioned, err := repo.ConfirmPayment(context.Background(), callback)
		if err != nil || transitioned || !b.IsPaid() {
			t.Fatalf("unexpected result: %+v transitioned=%v err=%v", b, transitioned, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations not met: %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &bookingRepository{storage: storage}

		mock.ExpectQuery("SET payment_status='completed', status='Confirmed'").WithArgs("order_b1", "pay_1", "sig").WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("FROM bookings WHERE gateway_order_id=").WithArgs("order_b1").WillReturnError(pgx.ErrNoRows)
		if _, _, err := repo.ConfirmPayment(context.Background(), callback); !errors.Is(err, domainErrors.ErrBookingNotFound) {
			t.Fatalf("expected booking not found, got %v", err)
		}
	})

	t.Run("database error", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &bookingRepository{storage: storage}

		mock.ExpectQuery("SET payment_status='completed', status='Confirmed'").WithArgs("order_b1", "pay_1", "sig").WillReturnError(errors.New("db down"))
		if _, _, err := repo.ConfirmPayment(context.Background(), callback); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected raw error, got %v", err)
		}
	})
}

func TestBookingRepositoryFailPayment(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}

	mock.ExpectQuery("SET payment_status='failed'").WithArgs("order_b1").WillReturnRows(
		bookingRows(bookingRow("b1", model.BookingStatusPending, model.PaymentStatusFailed, "")))
	b, transitioned, err := repo.FailPayment(context.Background(), "order_b1")
	if err != nil || !transitioned || b.PaymentStatus != model.PaymentStatusFailed {
		t.Fatalf("unexpected result: %+v transitioned=%v err=%v", b, transitioned, err)
	}

	mock.ExpectQuery("SET payment_status='failed'").WithArgs("order_b1").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM bookings WHERE gateway_order_id=").WithArgs("order_b1").WillReturnRows(
		bookingRows(bookingRow("b1", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay_1")))
	b, transitioned, err = repo.FailPayment(context.Background(), "order_b1")
	if err != nil || transitioned || b.PaymentStatus != model.PaymentStatusCompleted {
		t.Fatalf("unexpected result: %+v transitioned=%v err=%v", b, transitioned, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}

	mock.ExpectQuery("UPDATE bookings SET status=").WithArgs("b1", model.BookingStatusConfirmed, model.BookingStatusCompleted).WillReturnRows(
		bookingRows(bookingRow("b1", model.BookingStatusCompleted, model.PaymentStatusCompleted, "pay")))
	b, err := repo.UpdateStatus(context.Background(), "b1", model.BookingStatusConfirmed, model.BookingStatusCompleted)
	if err != nil || b.Status != model.BookingStatusCompleted {
		t.Fatalf("unexpected result: %+v err=%v", b, err)
	}

	mock.ExpectQuery("UPDATE bookings SET status=").WithArgs("b1", model.BookingStatusConfirmed, model.BookingStatusCompleted).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("b1").WillReturnRows(
		bookingRows(bookingRow("b1", model.BookingStatusCancelled, model.PaymentStatusCompleted, "pay")))
	if _, err := repo.UpdateStatus(context.Background(), "b1", model.BookingStatusConfirmed, model.BookingStatusCompleted); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	mock.ExpectQuery("UPDATE bookings SET status=").WithArgs("b9", model.BookingStatusPending, model.BookingStatusCancelled).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("b9").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.UpdateStatus(context.Background(), "b9", model.BookingStatusPending, model.BookingStatusCancelled); !errors.Is(err, domainErrors.ErrBookingNotFound) {
		t.Fatalf("expected booking not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryCancelStale(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}
	cutoff := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(cutoff, 10).WillReturnRows(bookingRows(
		bookingRow("b1", model.BookingStatusPending, model.PaymentStatusPending, ""),
		bookingRow("b2", model.BookingStatusPending, model.PaymentStatusProcessing, ""),
	))
	mock.ExpectExec("UPDATE bookings SET status='Cancelled'").WithArgs("b1").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE bookings SET status='Cancelled'").WithArgs("b2").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	cancelled, err := repo.CancelStale(context.Background(), cutoff, 10)
	if err != nil || len(cancelled) != 2 {
		t.Fatalf("unexpected result: %+v err=%v", cancelled, err)
	}
	for _, b := range cancelled {
		if b.Status != model.BookingStatusCancelled {
			t.Fatalf("expected cancelled status, got %s", b.Status)
		}
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(cutoff, 10).WillReturnRows(bookingRows(
		bookingRow("b1", model.BookingStatusPending, model.PaymentStatusPending, ""),
	))
	mock.ExpectExec("UPDATE bookings SET status='Cancelled'").WithArgs("b1").WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if _, err := repo.CancelStale(context.Background(), cutoff, 10); err == nil {
		t.Fatal("expected update error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(cutoff, 10).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.CancelStale(context.Background(), cutoff, 10); err == nil {
		t.Fatal("expected query error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(cutoff, 10).WillReturnRows(bookingRows())
	mock.ExpectCommit()
	if cancelled, err := repo.CancelStale(context.Background(), cutoff, 10); err != nil || len(cancelled) != 0 {
		t.Fatalf("expected nothing cancelled, got %+v err=%v", cancelled, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryStats(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("COUNT").WithArgs(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).WillReturnRows(
		pgxmockv3.NewRows([]string{"total", "pending", "confirmed", "completed", "cancelled", "month", "revenue"}).
			AddRow(int64(10), int64(3), int64(4), int64(2), int64(1), int64(5), model.Money(900000)))
	mock.ExpectQuery("WHERE event_date >=").WithArgs(now, upcomingLimit).WillReturnRows(bookingRows(
		bookingRow("b1", model.BookingStatusConfirmed, model.PaymentStatusCompleted, "pay"),
	))

	stats, err := repo.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 10 || stats.Confirmed != 4 || stats.Revenue != 900000 || len(stats.Upcoming) != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	mock.ExpectQuery("COUNT").WithArgs(pgxmockv3.AnyArg()).WillReturnError(errors.New("boom"))
	if _, err := repo.Stats(context.Background(), now); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryExport(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &bookingRepository{storage: storage}
	now := time.Now()

	mock.ExpectQuery("JOIN users u ON u.id = b.user_id").WillReturnRows(
		pgxmockv3.NewRows([]string{
			"id", "name", "email", "phone", "event_date", "event_type", "guest_count", "venue_name",
			"services", "total_amount", "status", "payment_status", "created_at",
		}).AddRow("b1", "Asha", "asha@example.com", "99", nil, model.EventReception, 150, "Taj",
			[]string{"Photography", "Catering"}, model.Money(150000), model.BookingStatusConfirmed, model.PaymentStatusCompleted, now),
	)
	rows, err := repo.Export(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("unexpected result: %+v err=%v", rows, err)
	}
	if rows[0].CustomerName != "Asha" || len(rows[0].Services) != 2 || rows[0].TotalAmount != 150000 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}

	mock.ExpectQuery("JOIN users u ON u.id = b.user_id").WillReturnError(errors.New("query"))
	if _, err := repo.Export(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestBookingRepositoryExportRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &bookingRepository{storage: storage}

	if _, err := repo.Export(context.Background()); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}
