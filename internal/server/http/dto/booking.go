package dto

import (
	"strings"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// BookingResponse is the client view of a booking. Gateway signatures are
// never exposed.
type BookingResponse struct {
	ID                string            `json:"_id"`
	UserID            string            `json:"userId"`
	ServiceIDs        []string          `json:"serviceIds"`
	TotalAmount       Rupees            `json:"totalAmount"`
	Currency          string            `json:"currency"`
	Status            string            `json:"status"`
	PaymentStatus     string            `json:"paymentStatus"`
	RazorpayOrderID   string            `json:"razorpayOrderId"`
	RazorpayPaymentID string            `json:"razorpayPaymentId,omitempty"`
	EventDate         *time.Time        `json:"eventDate,omitempty"`
	EventType         string            `json:"eventType,omitempty"`
	GuestCount        int               `json:"guestCount,omitempty"`
	Venue             *VenueRequest     `json:"venue,omitempty"`
	SpecialRequests   string            `json:"specialRequests,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Services          []ServiceResponse `json:"services,omitempty"`
	User              *UserResponse     `json:"user,omitempty"`
}

// NewBookingResponse maps a bare booking.
func NewBookingResponse(b *model.Booking) BookingResponse {
	if b == nil {
		return BookingResponse{}
	}
	resp := BookingResponse{
		ID:                b.ID,
		UserID:            b.UserID,
		ServiceIDs:        b.ServiceIDs,
		TotalAmount:       NewRupees(b.TotalAmount),
		Currency:          b.Currency,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		RazorpayOrderID:   b.GatewayOrderID,
		RazorpayPaymentID: b.GatewayPaymentID,
		EventDate:         b.Event.Date,
		EventType:         string(b.Event.Type),
		GuestCount:        b.Event.GuestCount,
		SpecialRequests:   b.Event.SpecialRequests,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if resp.ServiceIDs == nil {
		resp.ServiceIDs = []string{}
	}
	if v := b.Event.Venue; v != (model.Venue{}) {
		resp.Venue = &VenueRequest{Name: v.Name, Address: v.Address, City: v.City, State: v.State, Zip: v.Zip}
	}
	return resp
}

// NewBookingDetailsResponse maps a booking with whatever was resolved for it.
func NewBookingDetailsResponse(d model.BookingDetails) BookingResponse {
	resp := NewBookingResponse(d.Booking)
	if len(d.Services) > 0 {
		resp.Services = NewServiceResponses(d.Services)
	}
	resp.User = NewUserResponse(d.User)
	return resp
}

func NewBookingDetailsResponses(list []model.BookingDetails) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, d := range list {
		out = append(out, NewBookingDetailsResponse(d))
	}
	return out
}

// UpdateStatusRequest changes fulfilment status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatsResponse summarises bookings for the back office.
type StatsResponse struct {
	TotalBookings     int64             `json:"totalBookings"`
	PendingBookings   int64             `json:"pendingBookings"`
	ConfirmedBookings int64             `json:"confirmedBookings"`
	CompletedBookings int64             `json:"completedBookings"`
	CancelledBookings int64             `json:"cancelledBookings"`
	BookingsThisMonth int64             `json:"bookingsThisMonth"`
	TotalRevenue      Rupees            `json:"totalRevenue"`
	UpcomingEvents    []BookingResponse `json:"upcomingEvents"`
}

func NewStatsResponse(s *model.BookingStats) StatsResponse {
	upcoming := make([]BookingResponse, 0, len(s.Upcoming))
	for i := range s.Upcoming {
		upcoming = append(upcoming, NewBookingResponse(&s.Upcoming[i]))
	}
	return StatsResponse{
		TotalBookings:     s.Total,
		PendingBookings:   s.Pending,
		ConfirmedBookings: s.Confirmed,
		CompletedBookings: s.Completed,
		CancelledBookings: s.Cancelled,
		BookingsThisMonth: s.CreatedThisMonth,
		TotalRevenue:      NewRupees(s.Revenue),
		UpcomingEvents:    upcoming,
	}
}

// ExportRow is a flattened booking for spreadsheets.
type ExportRow struct {
	BookingID     string     `json:"bookingId"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	CustomerPhone string     `json:"customerPhone"`
	EventDate     *time.Time `json:"eventDate"`
	EventType     string     `json:"eventType"`
	GuestCount    int        `json:"guestCount"`
	Venue         string     `json:"venue"`
	Services      string     `json:"services"`
	TotalAmount   Rupees     `json:"totalAmount"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewExportRows(rows []model.BookingExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			BookingID:     r.BookingID,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			CustomerPhone: r.CustomerPhone,
			EventDate:     r.EventDate,
			EventType:     string(r.EventType),
			GuestCount:    r.GuestCount,
			Venue:         r.Venue,
			Services:      strings.Join(r.Services, ", "),
			TotalAmount:   NewRupees(r.TotalAmount),
			Status:        string(r.Status),
			PaymentStatus: string(r.PaymentStatus),
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}
