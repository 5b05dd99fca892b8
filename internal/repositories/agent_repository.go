package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/propserve/brokerage-api/internal/models"
)

type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	GetActiveByEmail(ctx context.Context, email string) (*models.Agent, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Agent, error)
	ListActive(ctx context.Context) ([]models.Agent, error)
	ListAll(ctx context.Context) ([]models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) error
	CountActive(ctx context.Context) (int, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	MarkDeleted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type agentRepository struct {
	db DB
}

func NewAgentRepository(db DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	query := `
		INSERT INTO agents (name, email, phone, city, password_hash, record_status)
		VALUES ($1, $2, $3, $4, $5, 'ACTIVE')
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, agent.Name, agent.Email, agent.Phone, agent.City, agent.PasswordHash).
		Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Agent, error) {
	query := `
		SELECT id, name, email, phone, city, password_hash, record_status, created_at, updated_at
		FROM agents
		WHERE email = $1 AND record_status = 'ACTIVE'`
	var a models.Agent
	err := r.db.QueryRow(ctx, query, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.City, &a.PasswordHash, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) GetActiveByID(ctx context.Context, id int64) (*models.Agent, error) {
	query := `
		SELECT id, name, email, phone, city, password_hash, record_status, created_at, updated_at
		FROM agents
		WHERE id = $1 AND record_status = 'ACTIVE'`
	var a models.Agent
	err := r.db.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.City, &a.PasswordHash, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) ListActive(ctx context.Context) ([]models.Agent, error) {
	return r.list(ctx, `WHERE record_status = 'ACTIVE'`)
}

func (r *agentRepository) ListAll(ctx context.Context) ([]models.Agent, error) {
	return r.list(ctx, ``)
}

func (r *agentRepository) list(ctx context.Context, where string) ([]models.Agent, error) {
	query := `
		SELECT id, name, email, phone, city, record_status, created_at, updated_at
		FROM agents ` + where + `
		ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []models.Agent{}
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.City, &a.RecordStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *agentRepository) Update(ctx context.Context, agent *models.Agent) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE agents SET name = $1, email = $2, phone = $3, city = $4, updated_at = NOW()
		WHERE id = $5 AND record_status = 'ACTIVE'`,
		agent.Name, agent.Email, agent.Phone, agent.City, agent.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM agents WHERE record_status = 'ACTIVE'`).Scan(&count)
	return count, err
}

func (r *agentRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM agents WHERE email = $1 AND record_status = 'ACTIVE')`, email).
		Scan(&exists)
	return exists, err
}

func (r *agentRepository) MarkDeleted(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE agents SET record_status = 'DELETED', updated_at = NOW() WHERE id = $1 AND record_status = 'ACTIVE'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the agent permanently together with its properties; the
// assignment rows go with the properties via the cascade.
func (r *agentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE agent_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
