package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

// VendorWithServices pairs a vendor with the catalog services it offers.
type VendorWithServices struct {
	Vendor   models.Vendor    `json:"vendor"`
	Services []models.Service `json:"services"`
}

type VendorRepository interface {
	CreateWithServices(ctx context.Context, vendor *models.Vendor, serviceIDs []int64) error
	GetActiveByEmail(ctx context.Context, email string) (*models.Vendor, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Vendor, error)
	ListActive(ctx context.Context) ([]models.Vendor, error)
	ListActiveWithServices(ctx context.Context) ([]VendorWithServices, error)
	ListAllWithServices(ctx context.Context) ([]VendorWithServices, error)
	ListByServiceIDs(ctx context.Context, serviceIDs []int64) ([]VendorWithServices, error)
	GetActiveByIDWithServices(ctx context.Context, id int64) (*VendorWithServices, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	CountActive(ctx context.Context) (int, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	MarkDeleted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ReplaceServices(ctx context.Context, vendorID int64, serviceIDs []int64) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	ListOfferings(ctx context.Context, vendorIDs, serviceIDs []int64) ([]models.VendorService, error)
}

type vendorRepository struct {
	db DB
}

func NewVendorRepository(db DB) VendorRepository {
	return &vendorRepository{db: db}
}

// CreateWithServices inserts the vendor and its service links in one
// transaction so a vendor never exists without its offerings.
func (r *vendorRepository) CreateWithServices(ctx context.Context, vendor *models.Vendor, serviceIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO vendors (name, email, phone, city, company_name, password_hash, record_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE')
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		vendor.Name, vendor.Email, vendor.Phone, vendor.City, vendor.CompanyName, vendor.PasswordHash).
		Scan(&vendor.ID, &vendor.CreatedAt, &vendor.UpdatedAt)
	if err != nil {
		return err
	}

	for _, sid := range serviceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO vendor_services (vendor_id, service_id) VALUES ($1, $2)`,
			vendor.ID, sid); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *vendorRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	query := `
		SELECT id, name, email, phone, city, company_name, password_hash, record_status, created_at, updated_at
		FROM vendors
		WHERE email = $1 AND record_status = 'ACTIVE'`
	var v models.Vendor
	err := r.db.QueryRow(ctx, query, email).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.City, &v.CompanyName, &v.PasswordHash, &v.RecordStatus, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepository) GetActiveByID(ctx context.Context, id int64) (*models.Vendor, error) {
	query := `
		SELECT id, name, email, phone, city, company_name, password_hash, record_status, created_at, updated_at
		FROM vendors
		WHERE id = $1 AND record_status = 'ACTIVE'`
	var v models.Vendor
	err := r.db.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.City, &v.CompanyName, &v.PasswordHash, &v.RecordStatus, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepository) ListActive(ctx context.Context) ([]models.Vendor, error) {
	return r.list(ctx, `WHERE record_status = 'ACTIVE'`)
}

func (r *vendorRepository) ListAllWithServices(ctx context.Context) ([]VendorWithServices, error) {
	vendors, err := r.list(ctx, ``)
	if err != nil {
		return nil, err
	}
	return r.attachServices(ctx, vendors)
}

func (r *vendorRepository) list(ctx context.Context, where string) ([]models.Vendor, error) {
	query := `
		SELECT id, name, email, phone, city, company_name, record_status, created_at, updated_at
		FROM vendors ` + where + `
		ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVendors(rows)
}

func (r *vendorRepository) GetActiveByIDWithServices(ctx context.Context, id int64) (*VendorWithServices, error) {
	vendor, err := r.GetActiveByID(ctx, id)
	if err != nil || vendor == nil {
		return nil, err
	}
	withServices, err := r.attachServices(ctx, []models.Vendor{*vendor})
	if err != nil {
		return nil, err
	}
	return &withServices[0], nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE vendors SET name = $1, email = $2, phone = $3, city = $4, company_name = $5, updated_at = NOW()
		WHERE id = $6 AND record_status = 'ACTIVE'`,
		vendor.Name, vendor.Email, vendor.Phone, vendor.City, vendor.CompanyName, vendor.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListActiveWithServices returns every active vendor together with the
// active catalog services it offers.
func (r *vendorRepository) ListActiveWithServices(ctx context.Context) ([]VendorWithServices, error) {
	vendors, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return r.attachServices(ctx, vendors)
}

// ListByServiceIDs returns active vendors offering at least one of the
// given services, each with only its matching offerings attached.
func (r *vendorRepository) ListByServiceIDs(ctx context.Context, serviceIDs []int64) ([]VendorWithServices, error) {
	query := `
		SELECT DISTINCT v.id, v.name, v.email, v.phone, v.city, v.company_name, v.record_status, v.created_at, v.updated_at
		FROM vendors v
		JOIN vendor_services vs ON vs.vendor_id = v.id
		WHERE v.record_status = 'ACTIVE' AND vs.service_id = ANY($1)
		ORDER BY v.id`
	rows, err := r.db.Query(ctx, query, serviceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	vendors, err := scanVendors(rows)
	if err != nil {
		return nil, err
	}
	return r.attachServices(ctx, vendors, serviceIDs...)
}

func (r *vendorRepository) attachServices(ctx context.Context, vendors []models.Vendor, onlyServiceIDs ...int64) ([]VendorWithServices, error) {
	if len(vendors) == 0 {
		return []VendorWithServices{}, nil
	}

	vendorIDs := make([]int64, len(vendors))
	for i, v := range vendors {
		vendorIDs[i] = v.ID
	}

	query := `
		SELECT vs.vendor_id, s.id, s.type, s.description, s.record_status, s.created_at, s.updated_at
		FROM vendor_services vs
		JOIN services s ON s.id = vs.service_id
		WHERE vs.vendor_id = ANY($1) AND s.record_status = 'ACTIVE'`
	args := []interface{}{vendorIDs}
	if len(onlyServiceIDs) > 0 {
		query += ` AND s.id = ANY($2)`
		args = append(args, onlyServiceIDs)
	}
	query += ` ORDER BY vs.vendor_id, s.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byVendor := make(map[int64][]models.Service, len(vendors))
	for rows.Next() {
		var vendorID int64
		var s models.Service
		if err := rows.Scan(&vendorID, &s.ID, &s.Type, &s.Description, &s.RecordStatus, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		byVendor[vendorID] = append(byVendor[vendorID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]VendorWithServices, 0, len(vendors))
	for _, v := range vendors {
		services := byVendor[v.ID]
		if services == nil {
			services = []models.Service{}
		}
		result = append(result, VendorWithServices{Vendor: v, Services: services})
	}
	return result, nil
}

func (r *vendorRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vendors WHERE record_status = 'ACTIVE'`).Scan(&count)
	return count, err
}

func (r *vendorRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vendors WHERE email = $1 AND record_status = 'ACTIVE')`, email).
		Scan(&exists)
	return exists, err
}

func (r *vendorRepository) MarkDeleted(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE vendors SET record_status = 'DELETED', updated_at = NOW() WHERE id = $1 AND record_status = 'ACTIVE'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the vendor permanently together with its offerings and
// any assignment rows still pointing at it.
func (r *vendorRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM property_services WHERE vendor_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM vendor_services WHERE vendor_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// ReplaceServices swaps out the vendor's offerings in one transaction.
func (r *vendorRepository) ReplaceServices(ctx context.Context, vendorID int64, serviceIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM vendor_services WHERE vendor_id = $1`, vendorID); err != nil {
		return err
	}
	for _, sid := range serviceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO vendor_services (vendor_id, service_id) VALUES ($1, $2)`,
			vendorID, sid); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ExistingIDs filters the given ids down to active vendor ids.
func (r *vendorRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM vendors WHERE id = ANY($1) AND record_status = 'ACTIVE'`, ids)
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

// ListOfferings returns the (vendor, service) links restricted to the
// given vendors and services.
func (r *vendorRepository) ListOfferings(ctx context.Context, vendorIDs, serviceIDs []int64) ([]models.VendorService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, vendor_id, service_id, created_at
		FROM vendor_services
		WHERE vendor_id = ANY($1) AND service_id = ANY($2)`,
		vendorIDs, serviceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offerings := []models.VendorService{}
	for rows.Next() {
		var vs models.VendorService
		if err := rows.Scan(&vs.ID, &vs.VendorID, &vs.ServiceID, &vs.CreatedAt); err != nil {
			return nil, err
		}
		offerings = append(offerings, vs)
	}
	return offerings, rows.Err()
}

func scanVendors(rows pgx.Rows) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.City, &v.CompanyName, &v.RecordStatus, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}
