package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/weddingmart/internal/server/http/dto"
)

const (
	webhookSignatureHeader = "X-Razorpay-Signature"
	maxWebhookBody         = 1 << 20
)

// PaymentHandler drives checkout: order creation, verification and the gateway webhook.
type PaymentHandler struct {
	facade PaymentFacade
}

func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateOrder handles POST /api/payment/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	items, ignored := req.CartItems()
	if len(ignored) > 0 {
		_ = c.Error(fmt.Errorf("ignored malformed price quotes for %s", strings.Join(ignored, ", "))).SetType(gin.ErrorTypePrivate)
	}
	event, err := req.Event()
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentPrincipal(c).UserID, items, event)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCreateOrderResponse(order))
}

// Verify handles POST /api/payment/verify-payment. A replayed callback answers
// like the first one.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	details, _, err := h.facade.VerifyPayment(c.Request.Context(), req.Callback())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Success: true,
		Booking: dto.NewBookingDetailsResponse(*details),
	})
}

// Details handles GET /api/payment/:bookingId.
func (h *PaymentHandler) Details(c *gin.Context) {
	details, err := h.facade.PaymentDetails(c.Request.Context(), CurrentPrincipal(c), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentDetailsResponse(details))
}

// Webhook handles POST /api/payment/webhook. The signature covers the raw body,
// so it is read before any decoding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(c, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		badRequest(c)
		return
	}

	if err := h.facade.HandleWebhook(c.Request.Context(), body, c.GetHeader(webhookSignatureHeader)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "ok"})
}
