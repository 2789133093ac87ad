package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/server/http/dto"
)

// BookingHandler serves booking history and the back office.
type BookingHandler struct {
	facade BookingFacade
}

func NewBookingHandler(facade BookingFacade) *BookingHandler {
	return &BookingHandler{facade: facade}
}

// Mine handles GET /api/bookings/my-bookings.
func (h *BookingHandler) Mine(c *gin.Context) {
	list, err := h.facade.MyBookings(c.Request.Context(), CurrentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingDetailsResponses(list))
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	details, err := h.facade.Booking(c.Request.Context(), CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingDetailsResponse(*details))
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(c *gin.Context) {
	var filter model.BookingFilter
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseBookingStatus(raw)
		if !ok {
			respond(c, http.StatusBadRequest, "status: is not supported")
			return
		}
		filter.Status = status
	}
	if raw := c.Query("paymentStatus"); raw != "" {
		status, ok := model.ParsePaymentStatus(raw)
		if !ok {
			respond(c, http.StatusBadRequest, "paymentStatus: is not supported")
			return
		}
		filter.PaymentStatus = status
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		respond(c, http.StatusBadRequest, "limit: must be a number")
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		respond(c, http.StatusBadRequest, "offset: must be a number")
		return
	}

	list, err := h.facade.Bookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingDetailsResponses(list))
}

// UpdateStatus handles PUT /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	details, err := h.facade.UpdateBookingStatus(c.Request.Context(), c.Param("id"), model.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBookingDetailsResponse(*details))
}

// Stats handles GET /api/bookings/stats/summary.
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.facade.BookingStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// Export handles GET /api/bookings/export/all.
func (h *BookingHandler) Export(c *gin.Context) {
	rows, err := h.facade.ExportBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExportRows(rows))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
