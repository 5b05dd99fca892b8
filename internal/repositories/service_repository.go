package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	GetActiveByID(ctx context.Context, id int64) (*models.Service, error)
	ListActive(ctx context.Context) ([]models.Service, error)
	ListAll(ctx context.Context) ([]models.Service, error)
	CountActive(ctx context.Context) (int, error)
	TypeExists(ctx context.Context, serviceType string) (bool, error)
	CountVendorLinks(ctx context.Context, serviceID int64) (int, error)
	CountAssignmentLinks(ctx context.Context, serviceID int64) (int, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	MarkDeleted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceRepository struct {
	db DB
}

func NewServiceRepository(db DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (type, description, record_status)
		VALUES ($1, $2, 'ACTIVE')
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, service.Type, service.Description).
		Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE services SET type = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND record_status = 'ACTIVE'`,
		service.Type, service.Description, service.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) GetActiveByID(ctx context.Context, id int64) (*models.Service, error) {
	query := `
		SELECT id, type, description, record_status, created_at, updated_at
		FROM services
		WHERE id = $1 AND record_status = 'ACTIVE'`
	var s models.Service
	err := r.db.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.Type, &s.Description, &s.RecordStatus, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	return r.list(ctx, `WHERE record_status = 'ACTIVE'`)
}

func (r *serviceRepository) ListAll(ctx context.Context) ([]models.Service, error) {
	return r.list(ctx, ``)
}

func (r *serviceRepository) list(ctx context.Context, where string) ([]models.Service, error) {
	query := `
		SELECT id, type, description, record_status, created_at, updated_at
		FROM services ` + where + `
		ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Type, &s.Description, &s.RecordStatus, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *serviceRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE record_status = 'ACTIVE'`).Scan(&count)
	return count, err
}

func (r *serviceRepository) TypeExists(ctx context.Context, serviceType string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE LOWER(type) = LOWER($1) AND record_status = 'ACTIVE')`,
		serviceType).Scan(&exists)
	return exists, err
}

// CountVendorLinks counts vendor offerings of the service. Soft-deleted
// vendors keep their offering rows, and those rows still block a
// service delete.
func (r *serviceRepository) CountVendorLinks(ctx context.Context, serviceID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM vendor_services WHERE service_id = $1`,
		serviceID).Scan(&count)
	return count, err
}

// CountAssignmentLinks counts property assignments referencing the
// service.
func (r *serviceRepository) CountAssignmentLinks(ctx context.Context, serviceID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM property_services WHERE service_id = $1`,
		serviceID).Scan(&count)
	return count, err
}

// ExistingIDs filters the given ids down to active service ids.
func (r *serviceRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM services WHERE id = ANY($1) AND record_status = 'ACTIVE'`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func (r *serviceRepository) MarkDeleted(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE services SET record_status = 'DELETED', updated_at = NOW() WHERE id = $1 AND record_status = 'ACTIVE'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the service permanently together with its vendor links
// and any assignment rows still pointing at it.
func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM property_services WHERE service_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM vendor_services WHERE service_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
