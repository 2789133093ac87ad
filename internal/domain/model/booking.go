package model

import (
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
)

// BookingStatus describes the fulfilment lifecycle of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// ParseBookingStatus validates raw status value.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch s := BookingStatus(raw); s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return s, true
	}
	return "", false
}

// IsTerminal reports whether no further fulfilment transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether fulfilment may move from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

// PaymentStatus describes the payment lifecycle, tracked apart from fulfilment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// ParsePaymentStatus validates raw payment status value.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch s := PaymentStatus(raw); s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed:
		return s, true
	}
	return "", false
}

// IsTerminal reports whether payment is settled one way or the other.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// IsOpen reports whether payment may still complete or fail.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusPending || s == PaymentStatusProcessing
}

// CanTransitionTo reports whether payment may move from s to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusProcessing || next == PaymentStatusCompleted || next == PaymentStatusFailed
	case PaymentStatusProcessing:
		return next == PaymentStatusCompleted || next == PaymentStatusFailed
	}
	return false
}

// EventType is the kind of celebration a booking is made for.
type EventType string

const (
	EventWedding    EventType = "Wedding"
	EventEngagement EventType = "Engagement"
	EventReception  EventType = "Reception"
	EventOther      EventType = "Other"
)

// Valid reports whether event type is known. Empty means not specified.
func (e EventType) Valid() bool {
	switch e {
	case "", EventWedding, EventEngagement, EventReception, EventOther:
		return true
	}
	return false
}

// Venue is the location of the booked event.
type Venue struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
}

// EventDetails carries optional information about the booked event.
type EventDetails struct {
	Date            *time.Time
	Type            EventType
	GuestCount      int
	Venue           Venue
	SpecialRequests string
}

// Booking links a user, a set of catalog services and the payment for them.
type Booking struct {
	ID               string
	UserID           string
	ServiceIDs       []string
	TotalAmount      Money
	Currency         string
	Status           BookingStatus
	PaymentStatus    PaymentStatus
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	Event            EventDetails
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPendingBooking builds a booking at the start of checkout.
func NewPendingBooking(id, userID string, serviceIDs []string, total Money, gatewayOrderID string, event EventDetails) *Booking {
	ids := make([]string, len(serviceIDs))
	copy(ids, serviceIDs)
	return &Booking{
		ID:             id,
		UserID:         userID,
		ServiceIDs:     ids,
		TotalAmount:    total,
		Currency:       CurrencyINR,
		Status:         BookingStatusPending,
		PaymentStatus:  PaymentStatusPending,
		GatewayOrderID: gatewayOrderID,
		Event:          event,
	}
}

// IsPaid reports whether payment was verified.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusCompleted
}

// CanConfirmPayment is the precondition of the verified-payment transition.
func (b *Booking) CanConfirmPayment() error {
	if !b.PaymentStatus.CanTransitionTo(PaymentStatusCompleted) {
		return fmt.Errorf("%w: payment %s", domainErrors.ErrInvalidTransition, b.PaymentStatus)
	}
	if !b.Status.CanTransitionTo(BookingStatusConfirmed) {
		return fmt.Errorf("%w: booking %s", domainErrors.ErrInvalidTransition, b.Status)
	}
	return nil
}

// CanFailPayment is the precondition of the gateway-reported failure transition.
func (b *Booking) CanFailPayment() error {
	if !b.PaymentStatus.CanTransitionTo(PaymentStatusFailed) {
		return fmt.Errorf("%w: payment %s", domainErrors.ErrInvalidTransition, b.PaymentStatus)
	}
	return nil
}

// CanChangeStatus is the precondition of an administrative fulfilment change.
// Confirmation requires verified payment.
func (b *Booking) CanChangeStatus(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s to %s", domainErrors.ErrInvalidTransition, b.Status, next)
	}
	if next == BookingStatusConfirmed && !b.IsPaid() {
		return fmt.Errorf("%w: booking is not paid", domainErrors.ErrInvalidTransition)
	}
	return nil
}

// VisibleTo reports whether principal may read the booking.
func (b *Booking) VisibleTo(p Principal) bool {
	return p.IsAdmin() || (p.UserID != "" && p.UserID == b.UserID)
}

// BookingDetails is a booking with its services and owner resolved.
type BookingDetails struct {
	Booking  *Booking
	Services []Service
	User     *User
}

// BookingFilter narrows administrative booking listings.
type BookingFilter struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
	Limit         int
	Offset        int
}

// BookingStats summarises bookings for the back office.
type BookingStats struct {
	Total            int64
	Pending          int64
	Confirmed        int64
	Completed        int64
	Cancelled        int64
	CreatedThisMonth int64
	Revenue          Money
	Upcoming         []Booking
}

// BookingExportRow is a flattened booking for spreadsheet export.
type BookingExportRow struct {
	BookingID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	EventDate     *time.Time
	EventType     EventType
	GuestCount    int
	Venue         string
	Services      []string
	TotalAmount   Money
	Status        BookingStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}
