package dto

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// ServiceResponse is a catalog entry.
type ServiceResponse struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	PricingType string    `json:"pricingType"`
	Price       Rupees    `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewServiceResponse(s model.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    string(s.Category),
		PricingType: string(s.PricingType),
		Price:       NewRupees(s.Price),
		IsAvailable: s.Available,
		CreatedAt:   s.CreatedAt,
	}
}

func NewServiceResponses(services []model.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, NewServiceResponse(s))
	}
	return out
}

// CreateServiceRequest describes a new catalog entry. Availability defaults to true.
type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	PricingType string `json:"pricingType"`
	Price       Rupees `json:"price"`
	IsAvailable *bool  `json:"isAvailable"`
}

// Draft converts the payload into domain input.
func (r CreateServiceRequest) Draft() (model.ServiceDraft, error) {
	price, err := r.Price.Money()
	if err != nil {
		return model.ServiceDraft{}, domainErrors.NewValidationError("price", "must be a non-negative amount in rupees")
	}
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return model.ServiceDraft{
		Name:        r.Name,
		Description: r.Description,
		Category:    model.ServiceCategory(strings.TrimSpace(r.Category)),
		PricingType: model.PricingType(strings.TrimSpace(r.PricingType)),
		Price:       price,
		Available:   available,
	}, nil
}

// AvailabilityRequest toggles whether a service can be booked.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}
