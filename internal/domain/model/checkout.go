package model

// CartItem is a service selected by the client. QuotedPrice is informational only.
type CartItem struct {
	ServiceID   string
	QuotedPrice *Money
}

// GatewayOrder is the provider-side payment session opened for a booking.
type GatewayOrder struct {
	ID       string
	Amount   Money
	Currency string
	Receipt  string
	Status   string
}

// CheckoutOrder is returned to the client to open the hosted checkout widget.
type CheckoutOrder struct {
	Order   GatewayOrder
	KeyID   string
	Booking *Booking
	User    *User
}

// PaymentCallback carries the correlation values returned by the hosted widget.
type PaymentCallback struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}
