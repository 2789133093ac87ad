package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

type serviceRepository struct {
	storage *Storage
}

const serviceColumns = `id, name, description, category, pricing_type, price, available, created_at, updated_at`

func scanService(row rowScanner) (*model.Service, error) {
	var s model.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.PricingType, &s.Price, &s.Available, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) list(ctx context.Context, query string, args ...any) ([]model.Service, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) (*model.Service, error) {
	const query = `INSERT INTO services (id, name, description, category, pricing_type, price, available)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	created := *service
	err := r.storage.pool.QueryRow(ctx, query,
		service.ID, service.Name, service.Description, service.Category, service.PricingType, service.Price, service.Available,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	const query = `SELECT ` + serviceColumns + ` FROM services WHERE id=$1`
	return scanService(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1) ORDER BY name`
	return r.list(ctx, query, ids)
}

func (r *serviceRepository) ListAvailable(ctx context.Context) ([]model.Service, error) {
	const query = `SELECT ` + serviceColumns + ` FROM services WHERE available ORDER BY category, name`
	return r.list(ctx, query)
}

func (r *serviceRepository) SetAvailability(ctx context.Context, id string, available bool) (*model.Service, error) {
	const query = `UPDATE services SET available=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + serviceColumns
	return scanService(r.storage.pool.QueryRow(ctx, query, id, available))
}
