package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/server/http/dto"
	"github.com/polkiloo/weddingmart/internal/server/http/middleware"
)

// CurrentPrincipal extracts authenticated caller from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	return middleware.CurrentPrincipal(c)
}

func respond(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.MessageResponse{Success: false, Message: message})
}

func badRequest(c *gin.Context) {
	respond(c, http.StatusBadRequest, "invalid request body")
}

// respondError maps domain errors onto HTTP statuses. Server-side failures are
// attached to the context for the request logger and answered with a generic body.
func respondError(c *gin.Context, err error) {
	var (
		cartErr       *domainErrors.CartError
		validationErr *domainErrors.ValidationError
	)
	switch {
	case errors.As(err, &cartErr):
		respond(c, http.StatusBadRequest, cartErr.Error())
	case errors.As(err, &validationErr):
		respond(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		respond(c, http.StatusBadRequest, "order total must be positive")
	case errors.Is(err, domainErrors.ErrInvalidSignature):
		respond(c, http.StatusBadRequest, "payment verification failed")
	case errors.Is(err, domainErrors.ErrBookingNotFound):
		respond(c, http.StatusNotFound, "booking not found")
	case errors.Is(err, domainErrors.ErrNotFound):
		respond(c, http.StatusNotFound, "not found")
	case errors.Is(err, domainErrors.ErrForbidden):
		respond(c, http.StatusForbidden, "access denied")
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domainErrors.ErrUnauthorized):
		respond(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		respond(c, http.StatusConflict, "already exists")
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		respond(c, http.StatusConflict, "booking cannot move to the requested state")
	case errors.Is(err, domainErrors.ErrPaymentGateway):
		_ = c.Error(err)
		respond(c, http.StatusBadGateway, "payment gateway unavailable")
	default:
		_ = c.Error(err)
		respond(c, http.StatusInternalServerError, "internal server error")
	}
}
