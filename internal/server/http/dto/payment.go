package dto

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// CartItemRequest references a catalog service. The web client sends the
// service as {_id, price}; price is informational.
type CartItemRequest struct {
	ID        string  `json:"_id"`
	ServiceID string  `json:"serviceId"`
	Price     *Rupees `json:"price"`
}

// VenueRequest is the event location.
type VenueRequest struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

// CreateOrderRequest starts checkout. Amount is whatever the client displayed
// and never used for charging.
type CreateOrderRequest struct {
	Amount          *Rupees           `json:"amount"`
	Services        []CartItemRequest `json:"services"`
	EventDate       string            `json:"eventDate"`
	EventType       string            `json:"eventType"`
	GuestCount      int               `json:"guestCount"`
	Venue           VenueRequest      `json:"venue"`
	SpecialRequests string            `json:"specialRequests"`
}

var eventDateLayouts = []string{time.RFC3339, "2006-01-02"}

// CartItems converts the selected services. Quoted prices are informational;
// a malformed one is dropped and its service id reported in ignored.
func (r CreateOrderRequest) CartItems() (items []model.CartItem, ignored []string) {
	items = make([]model.CartItem, 0, len(r.Services))
	for _, s := range r.Services {
		id := s.ID
		if strings.TrimSpace(id) == "" {
			id = s.ServiceID
		}
		item := model.CartItem{ServiceID: id}
		if s.Price != nil {
			if price, err := s.Price.Money(); err == nil {
				item.QuotedPrice = &price
			} else {
				ignored = append(ignored, id)
			}
		}
		items = append(items, item)
	}
	return items, ignored
}

// Event converts the event fields.
func (r CreateOrderRequest) Event() (model.EventDetails, error) {
	ev := model.EventDetails{
		Type:            model.EventType(strings.TrimSpace(r.EventType)),
		GuestCount:      r.GuestCount,
		SpecialRequests: strings.TrimSpace(r.SpecialRequests),
		Venue: model.Venue{
			Name:    strings.TrimSpace(r.Venue.Name),
			Address: strings.TrimSpace(r.Venue.Address),
			City:    strings.TrimSpace(r.Venue.City),
			State:   strings.TrimSpace(r.Venue.State),
			Zip:     strings.TrimSpace(r.Venue.Zip),
		},
	}
	raw := strings.TrimSpace(r.EventDate)
	if raw == "" {
		return ev, nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			ev.Date = &t
			return ev, nil
		}
	}
	return model.EventDetails{}, domainErrors.NewValidationError("eventDate", "must be a date (YYYY-MM-DD or RFC 3339)")
}

// GatewayOrderResponse is what the hosted checkout widget is opened with.
// Amount is in paise.
type GatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrderResponse is returned by create-order.
type CreateOrderResponse struct {
	Success bool                 `json:"success"`
	Order   GatewayOrderResponse `json:"order"`
	Key     string               `json:"key"`
	Booking BookingResponse      `json:"booking"`
	User    *UserResponse        `json:"user,omitempty"`
}

func NewCreateOrderResponse(o *model.CheckoutOrder) CreateOrderResponse {
	return CreateOrderResponse{
		Success: true,
		Order: GatewayOrderResponse{
			ID:       o.Order.ID,
			Amount:   int64(o.Order.Amount),
			Currency: o.Order.Currency,
			Receipt:  o.Order.Receipt,
			Status:   o.Order.Status,
		},
		Key:     o.KeyID,
		Booking: NewBookingResponse(o.Booking),
		User:    NewUserResponse(o.User),
	}
}

// VerifyPaymentRequest carries the widget callback fields. Anything else the
// client sends alongside them is ignored.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Callback converts the payload into domain input.
func (r VerifyPaymentRequest) Callback() model.PaymentCallback {
	return model.PaymentCallback{
		GatewayOrderID:   r.OrderID,
		GatewayPaymentID: r.PaymentID,
		Signature:        r.Signature,
	}
}

// VerifyPaymentResponse reports the booking after verification.
type VerifyPaymentResponse struct {
	Success bool            `json:"success"`
	Booking BookingResponse `json:"booking"`
}

// PaymentDetailsResponse is the payment view of a booking.
type PaymentDetailsResponse struct {
	Booking  BookingResponse   `json:"booking"`
	Services []ServiceResponse `json:"services"`
	User     *UserResponse     `json:"user,omitempty"`
}

func NewPaymentDetailsResponse(d *model.BookingDetails) PaymentDetailsResponse {
	return PaymentDetailsResponse{
		Booking:  NewBookingResponse(d.Booking),
		Services: NewServiceResponses(d.Services),
		User:     NewUserResponse(d.User),
	}
}

// MessageResponse is the body of every failed request.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
