package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetActiveByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Admin, error)
	ListActive(ctx context.Context) ([]models.Admin, error)
	ListAll(ctx context.Context) ([]models.Admin, error)
	CountActive(ctx context.Context) (int, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	MarkDeleted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type adminRepository struct {
	db DB
}

func NewAdminRepository(db DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (name, email, password_hash, record_status)
		VALUES ($1, $2, $3, 'ACTIVE')
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, admin.Name, admin.Email, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, record_status, created_at, updated_at
		FROM admins
		WHERE email = $1 AND record_status = 'ACTIVE'`
	var a models.Admin
	err := r.db.QueryRow(ctx, query, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetActiveByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, record_status, created_at, updated_at
		FROM admins
		WHERE id = $1 AND record_status = 'ACTIVE'`
	var a models.Admin
	err := r.db.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) ListActive(ctx context.Context) ([]models.Admin, error) {
	return r.list(ctx, `WHERE record_status = 'ACTIVE'`)
}

func (r *adminRepository) ListAll(ctx context.Context) ([]models.Admin, error) {
	return r.list(ctx, ``)
}

func (r *adminRepository) list(ctx context.Context, where string) ([]models.Admin, error) {
	query := `
		SELECT id, name, email, record_status, created_at, updated_at
		FROM admins ` + where + `
		ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *adminRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins WHERE record_status = 'ACTIVE'`).Scan(&count)
	return count, err
}

func (r *adminRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1 AND record_status = 'ACTIVE')`, email).
		Scan(&exists)
	return exists, err
}

func (r *adminRepository) MarkDeleted(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admins SET record_status = 'DELETED', updated_at = NOW() WHERE id = $1 AND record_status = 'ACTIVE'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
