package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/domain/repository"
)

// CatalogUseCase exposes vendor services.
type CatalogUseCase struct {
	services repository.ServiceRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(services repository.ServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{services: services}
}

func (u *CatalogUseCase) List(ctx context.Context) ([]model.Service, error) {
	return u.services.ListAvailable(ctx)
}

func (u *CatalogUseCase) Get(ctx context.Context, id string) (*model.Service, error) {
	return u.services.GetByID(ctx, strings.TrimSpace(id))
}

// Create validates and stores a new service.
func (u *CatalogUseCase) Create(ctx context.Context, in model.ServiceDraft) (*model.Service, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, domainErrors.NewValidationError("name", "is required")
	case !in.Category.Valid():
		return nil, domainErrors.NewValidationError("category", "is not supported")
	case in.PricingType == "":
		in.PricingType = model.PricingFixed
	case !in.PricingType.Valid():
		return nil, domainErrors.NewValidationError("pricingType", "is not supported")
	}
	if in.Price < 0 {
		return nil, domainErrors.NewValidationError("price", "must not be negative")
	}

	return u.services.Create(ctx, &model.Service{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		PricingType: in.PricingType,
		Price:       in.Price,
		Available:   in.Available,
	})
}

func (u *CatalogUseCase) SetAvailability(ctx context.Context, id string, available bool) (*model.Service, error) {
	return u.services.SetAvailability(ctx, strings.TrimSpace(id), available)
}
