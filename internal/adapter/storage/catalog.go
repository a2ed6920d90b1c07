package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

// CatalogRepository reads the services and banners reference tables.
// Pure lookups, no writes.
type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const serviceColumns = `service_code, service_name, service_icon, service_tariff, service_type, service_type_name, admin_fee`

func scanService(row pgx.Row) (*domain.Service, error) {
	var svc domain.Service
	var tariff decimal.NullDecimal
	err := row.Scan(&svc.Code, &svc.Name, &svc.Icon, &tariff, &svc.Type, &svc.TypeName, &svc.AdminFee)
	if err != nil {
		return nil, err
	}
	if tariff.Valid {
		svc.Tariff = &tariff.Decimal
	}
	return &svc, nil
}

// Lookup resolves one service code. Unknown codes are rejected before
// any mutation happens upstream.
func (r *CatalogRepository) Lookup(ctx context.Context, code string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE service_code = $1`

	svc, err := scanService(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up service %s: %w", code, err)
	}
	return svc, nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *svc)
	}
	return services, rows.Err()
}

func (r *CatalogRepository) Banners(ctx context.Context) ([]domain.Banner, error) {
	query := `SELECT banner_name, banner_image, description FROM banners ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.Name, &b.Image, &b.Description); err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}
