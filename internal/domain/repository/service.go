package repository

import (
	"context"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// ServiceRepository provides catalog access.
type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) (*model.Service, error)
	GetByID(ctx context.Context, id string) (*model.Service, error)
	// GetByIDs returns the distinct services found for ids; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]model.Service, error)
	ListAvailable(ctx context.Context) ([]model.Service, error)
	SetAvailability(ctx context.Context, id string, available bool) (*model.Service, error)
}
