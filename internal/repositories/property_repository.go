package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

// StatusCount is one row of the dashboard status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PropertyRepository interface {
	CreateWithAssignments(ctx context.Context, property *models.Property, pairs []models.PropertyService) error
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	GetByIDForAgent(ctx context.Context, id, agentID int64) (*models.Property, error)
	UpdateFields(ctx context.Context, property *models.Property) error
	UpdateStatus(ctx context.Context, id int64, status models.PropertyStatus) error
	ListByAgent(ctx context.Context, agentID int64) ([]models.Property, error)
	CountAll(ctx context.Context) (int, error)
	CountDistinctCities(ctx context.Context) (int, error)
	StatusBreakdown(ctx context.Context) ([]StatusCount, error)
}

type propertyRepository struct {
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// CreateWithAssignments inserts the property and its vendor-service
// assignments in one transaction.
func (r *propertyRepository) CreateWithAssignments(ctx context.Context, property *models.Property, pairs []models.PropertyService) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO properties (agent_id, owner_name, owner_email, owner_phone, address_line, city, state, pincode, project_ending_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		property.AgentID, property.OwnerName, property.OwnerEmail, property.OwnerPhone,
		property.AddressLine, property.City, property.State, property.Pincode,
		property.ProjectEndingDate, property.Status).
		Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO property_services (property_id, vendor_id, service_id, assigned_by, assigned_at)
			VALUES ($1, $2, $3, $4, $5)`,
			property.ID, p.VendorID, p.ServiceID, p.AssignedBy, p.AssignedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *propertyRepository) GetByIDForAgent(ctx context.Context, id, agentID int64) (*models.Property, error) {
	return r.getOne(ctx, `WHERE id = $1 AND agent_id = $2`, id, agentID)
}

func (r *propertyRepository) getOne(ctx context.Context, where string, args ...interface{}) (*models.Property, error) {
	query := `
		SELECT id, agent_id, owner_name, owner_email, owner_phone, address_line, city, state, pincode, project_ending_date, status, created_at, updated_at
		FROM properties ` + where
	var p models.Property
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.AgentID, &p.OwnerName, &p.OwnerEmail, &p.OwnerPhone,
			&p.AddressLine, &p.City, &p.State, &p.Pincode, &p.ProjectEndingDate,
			&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) UpdateFields(ctx context.Context, property *models.Property) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE properties
		SET owner_name = $1, owner_email = $2, owner_phone = $3, address_line = $4,
		    city = $5, state = $6, pincode = $7, project_ending_date = $8, updated_at = NOW()
		WHERE id = $9`,
		property.OwnerName, property.OwnerEmail, property.OwnerPhone, property.AddressLine,
		property.City, property.State, property.Pincode, property.ProjectEndingDate, property.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id int64, status models.PropertyStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE properties SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) ListByAgent(ctx context.Context, agentID int64) ([]models.Property, error) {
	query := `
		SELECT id, agent_id, owner_name, owner_email, owner_phone, address_line, city, state, pincode, project_ending_date, status, created_at, updated_at
		FROM properties
		WHERE agent_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.AgentID, &p.OwnerName, &p.OwnerEmail, &p.OwnerPhone,
			&p.AddressLine, &p.City, &p.State, &p.Pincode, &p.ProjectEndingDate,
			&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *propertyRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count)
	return count, err
}

func (r *propertyRepository) CountDistinctCities(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT city) FROM properties`).Scan(&count)
	return count, err
}

func (r *propertyRepository) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM properties GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := []StatusCount{}
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, sc)
	}
	return breakdown, rows.Err()
}
