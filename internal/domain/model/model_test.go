package model

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
)

func TestBookingStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   BookingStatus
		value string
	}{
		{"pending", BookingStatusPending, "Pending"},
		{"confirmed", BookingStatusConfirmed, "Confirmed"},
		{"completed", BookingStatusCompleted, "Completed"},
		{"cancelled", BookingStatusCancelled, "Cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			parsed, ok := ParseBookingStatus(tc.value)
			if !ok || parsed != tc.got {
				t.Fatalf("parse %q: got %q ok=%v", tc.value, parsed, ok)
			}
		})
	}

	if _, ok := ParseBookingStatus("pending"); ok {
		t.Fatal("expected lower-case order status to be rejected")
	}
}

func TestPaymentStatusValues(t *testing.T) {
	for _, raw := range []string{"pending", "processing", "completed", "failed"} {
		if _, ok := ParsePaymentStatus(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	if _, ok := ParsePaymentStatus("paid"); ok {
		t.Fatal("expected unknown payment status to be rejected")
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
	if !BookingStatusCompleted.IsTerminal() || !BookingStatusCancelled.IsTerminal() || BookingStatusConfirmed.IsTerminal() {
		t.Fatal("unexpected terminal states")
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		allowed  bool
	}{
		{PaymentStatusPending, PaymentStatusProcessing, true},
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusProcessing, PaymentStatusCompleted, true},
		{PaymentStatusProcessing, PaymentStatusFailed, true},
		{PaymentStatusProcessing, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		{PaymentStatusFailed, PaymentStatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
	if !PaymentStatusPending.IsOpen() || !PaymentStatusProcessing.IsOpen() || PaymentStatusFailed.IsOpen() {
		t.Fatal("unexpected open states")
	}
	if !PaymentStatusCompleted.IsTerminal() || !PaymentStatusFailed.IsTerminal() {
		t.Fatal("unexpected terminal states")
	}
}

func TestNewPendingBooking(t *testing.T) {
	ids := []string{"a", "b"}
	b := NewPendingBooking("id", "user", ids, 150000, "order_1", EventDetails{Type: EventWedding})
	ids[0] = "mutated"
	if b.ServiceIDs[0] != "a" {
		t.Fatal("expected service ids to be copied")
	}
	if b.Status != BookingStatusPending || b.PaymentStatus != PaymentStatusPending {
		t.Fatalf("unexpected statuses %s/%s", b.Status, b.PaymentStatus)
	}
	if b.Currency != CurrencyINR || b.GatewayOrderID != "order_1" {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestBookingCanConfirmPayment(t *testing.T) {
	cases := []struct {
		name    string
		status  BookingStatus
		payment PaymentStatus
		ok      bool
	}{
		{"pending", BookingStatusPending, PaymentStatusPending, true},
		{"processing", BookingStatusPending, PaymentStatusProcessing, true},
		{"already paid", BookingStatusConfirmed, PaymentStatusCompleted, false},
		{"failed", BookingStatusPending, PaymentStatusFailed, false},
		{"cancelled", BookingStatusCancelled, PaymentStatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Booking{Status: tc.status, PaymentStatus: tc.payment}
			err := b.CanConfirmPayment()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, domainErrors.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition, got %v", err)
			}
		})
	}
}

func TestBookingCanFailPayment(t *testing.T) {
	if err := (&Booking{PaymentStatus: PaymentStatusProcessing}).CanFailPayment(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&Booking{PaymentStatus: PaymentStatusCompleted}).CanFailPayment(); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestBookingCanChangeStatus(t *testing.T) {
	unpaid := &Booking{Status: BookingStatusPending, PaymentStatus: PaymentStatusPending}
	if err := unpaid.CanChangeStatus(BookingStatusConfirmed); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected unpaid confirmation to be rejected, got %v", err)
	}
	if err := unpaid.CanChangeStatus(BookingStatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid := &Booking{Status: BookingStatusConfirmed, PaymentStatus: PaymentStatusCompleted}
	if err := paid.CanChangeStatus(BookingStatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := paid.CanChangeStatus(BookingStatusPending); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestBookingVisibleTo(t *testing.T) {
	b := &Booking{UserID: "owner"}
	if !b.VisibleTo(Principal{UserID: "owner", Role: RoleUser}) {
		t.Fatal("owner should see booking")
	}
	if !b.VisibleTo(Principal{UserID: "other", Role: RoleAdmin}) {
		t.Fatal("admin should see booking")
	}
	if b.VisibleTo(Principal{UserID: "other", Role: RoleUser}) {
		t.Fatal("stranger should not see booking")
	}
	if (&Booking{}).VisibleTo(Principal{}) {
		t.Fatal("empty principal should not match empty owner")
	}
}

func TestMoneyFromMajor(t *testing.T) {
	cases := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"1500", 150000, false},
		{"1000.50", 100050, false},
		{"0", 0, false},
		{"0.001", 0, true},
		{"-1", 0, true},
		{"92233720368547758.07", math.MaxInt64, false},
		{"92233720368547758.08", 0, true},
		{"184467440737095516.17", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := MoneyFromMajor(decimal.RequireFromString(tc.in))
			if tc.wantErr {
				if !errors.Is(err, domainErrors.ErrInvalidAmount) {
					t.Fatalf("expected invalid amount, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %d, got %d err=%v", tc.want, got, err)
			}
		})
	}
}

func TestMoneyAdd(t *testing.T) {
	cases := []struct {
		name   string
		a, b   Money
		want   Money
		wantOK bool
	}{
		{name: "plain", a: 100000, b: 50000, want: 150000, wantOK: true},
		{name: "up to max", a: math.MaxInt64 - 1, b: 1, want: math.MaxInt64, wantOK: true},
		{name: "wraps", a: 1 << 62, b: 1 << 62, wantOK: false},
		{name: "past max", a: math.MaxInt64, b: 1, wantOK: false},
		{name: "negative", a: -1, b: 10, wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.a.Add(tc.b)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("expected %d ok=%v, got %d ok=%v", tc.want, tc.wantOK, got, ok)
			}
		})
	}
}

func TestMoneyMajor(t *testing.T) {
	m := Money(150000)
	if !m.Major().Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected major amount %s", m.Major())
	}
	if m.String() != "1500.00" {
		t.Fatalf("unexpected string %q", m.String())
	}
}

func TestCategoryAndPricingValidation(t *testing.T) {
	if !CategoryCatering.Valid() || ServiceCategory("Flowers").Valid() {
		t.Fatal("unexpected category validation")
	}
	if !PricingPerPerson.Valid() || PricingType("Weekly").Valid() {
		t.Fatal("unexpected pricing validation")
	}
	if !EventType("").Valid() || EventType("Party").Valid() {
		t.Fatal("unexpected event type validation")
	}
}
