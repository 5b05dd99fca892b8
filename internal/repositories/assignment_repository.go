package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

// AgentSummary identifies the agent who made an assignment.
type AgentSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// VendorAssignmentRow is one assignment as seen by the assigned vendor.
type VendorAssignmentRow struct {
	Property   models.Property `json:"property"`
	Service    models.Service  `json:"service"`
	AssignedAt time.Time       `json:"assignedAt"`
	AssignedBy AgentSummary    `json:"assignedBy"`
}

// AssignmentDetailRow is one assignment with everything joined in, used
// for the admin listings and the dashboard.
type AssignmentDetailRow struct {
	PropertyID  int64     `json:"propertyId"`
	OwnerName   string    `json:"ownerName"`
	City        string    `json:"city"`
	VendorID    int64     `json:"vendorId"`
	VendorName  string    `json:"vendorName"`
	ServiceID   int64     `json:"serviceId"`
	ServiceType string    `json:"serviceType"`
	AgentID     int64     `json:"agentId"`
	AgentName   string    `json:"agentName"`
	AssignedAt  time.Time `json:"assignedAt"`
}

type AssignmentRepository interface {
	ListByProperty(ctx context.Context, propertyID int64) ([]models.PropertyService, error)
	Replace(ctx context.Context, propertyID int64, pairs []models.PropertyService) error
	ListForVendor(ctx context.Context, vendorID int64) ([]VendorAssignmentRow, error)
	ListAll(ctx context.Context) ([]AssignmentDetailRow, error)
	ListRecent(ctx context.Context, limit int) ([]AssignmentDetailRow, error)
	CountAll(ctx context.Context) (int, error)
	CountCompleted(ctx context.Context, now time.Time) (int, error)
}

type assignmentRepository struct {
	db DB
}

func NewAssignmentRepository(db DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListByProperty(ctx context.Context, propertyID int64) ([]models.PropertyService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, property_id, vendor_id, service_id, assigned_by, assigned_at
		FROM property_services
		WHERE property_id = $1
		ORDER BY id`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := []models.PropertyService{}
	for rows.Next() {
		var ps models.PropertyService
		if err := rows.Scan(&ps.ID, &ps.PropertyID, &ps.VendorID, &ps.ServiceID, &ps.AssignedBy, &ps.AssignedAt); err != nil {
			return nil, err
		}
		pairs = append(pairs, ps)
	}
	return pairs, rows.Err()
}

// Replace swaps the property's assignment set in one transaction.
func (r *assignmentRepository) Replace(ctx context.Context, propertyID int64, pairs []models.PropertyService) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM property_services WHERE property_id = $1`, propertyID); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO property_services (property_id, vendor_id, service_id, assigned_by, assigned_at)
			VALUES ($1, $2, $3, $4, $5)`,
			propertyID, p.VendorID, p.ServiceID, p.AssignedBy, p.AssignedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *assignmentRepository) ListForVendor(ctx context.Context, vendorID int64) ([]VendorAssignmentRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.agent_id, p.owner_name, p.owner_email, p.owner_phone, p.address_line, p.city, p.state, p.pincode, p.project_ending_date, p.status, p.created_at, p.updated_at,
		       s.id, s.type, s.description, s.record_status, s.created_at, s.updated_at,
		       ps.assigned_at,
		       a.id, a.name, a.email, a.phone
		FROM property_services ps
		JOIN properties p ON p.id = ps.property_id
		JOIN services s ON s.id = ps.service_id
		JOIN agents a ON a.id = ps.assigned_by
		WHERE ps.vendor_id = $1
		ORDER BY ps.assigned_at DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []VendorAssignmentRow{}
	for rows.Next() {
		var row VendorAssignmentRow
		if err := rows.Scan(
			&row.Property.ID, &row.Property.AgentID, &row.Property.OwnerName, &row.Property.OwnerEmail, &row.Property.OwnerPhone,
			&row.Property.AddressLine, &row.Property.City, &row.Property.State, &row.Property.Pincode,
			&row.Property.ProjectEndingDate, &row.Property.Status, &row.Property.CreatedAt, &row.Property.UpdatedAt,
			&row.Service.ID, &row.Service.Type, &row.Service.Description, &row.Service.RecordStatus,
			&row.Service.CreatedAt, &row.Service.UpdatedAt,
			&row.AssignedAt,
			&row.AssignedBy.ID, &row.AssignedBy.Name, &row.AssignedBy.Email, &row.AssignedBy.Phone,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, row)
	}
	return assignments, rows.Err()
}

func (r *assignmentRepository) ListAll(ctx context.Context) ([]AssignmentDetailRow, error) {
	return r.listDetailed(ctx, 0)
}

func (r *assignmentRepository) ListRecent(ctx context.Context, limit int) ([]AssignmentDetailRow, error) {
	return r.listDetailed(ctx, limit)
}

func (r *assignmentRepository) listDetailed(ctx context.Context, limit int) ([]AssignmentDetailRow, error) {
	query := `
		SELECT p.id, p.owner_name, p.city,
		       v.id, v.name,
		       s.id, s.type,
		       a.id, a.name,
		       ps.assigned_at
		FROM property_services ps
		JOIN properties p ON p.id = ps.property_id
		JOIN vendors v ON v.id = ps.vendor_id
		JOIN services s ON s.id = ps.service_id
		JOIN agents a ON a.id = ps.assigned_by
		ORDER BY ps.assigned_at DESC`
	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = r.db.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []AssignmentDetailRow{}
	for rows.Next() {
		var d AssignmentDetailRow
		if err := rows.Scan(
			&d.PropertyID, &d.OwnerName, &d.City,
			&d.VendorID, &d.VendorName,
			&d.ServiceID, &d.ServiceType,
			&d.AgentID, &d.AgentName,
			&d.AssignedAt,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *assignmentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM property_services`).Scan(&count)
	return count, err
}

// CountCompleted counts assignments whose property's project ending date
// has passed.
func (r *assignmentRepository) CountCompleted(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM property_services ps
		JOIN properties p ON p.id = ps.property_id
		WHERE p.project_ending_date < $1`, now).Scan(&count)
	return count, err
}
