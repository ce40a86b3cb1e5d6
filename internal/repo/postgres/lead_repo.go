package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juicefit/juice-platform/internal/domain"
)

type LeadRepository interface {
	Create(ctx context.Context, req *domain.LeadReq) (*domain.Lead, error)
	List(ctx context.Context, limit, offset int) ([]domain.Lead, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadCols = `id, full_name, email, phone, goal, city, source, notes, created_at`

func (r *leadRepository) Create(ctx context.Context, req *domain.LeadReq) (*domain.Lead, error) {
	const q = `INSERT INTO leads (full_name, email, phone, goal, city, source, notes)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	RETURNING ` + leadCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l domain.Lead
	err := r.pool.QueryRow(ctx, q,
		req.FullName, req.Email, req.Phone, req.Goal, req.City, req.Source, req.Notes,
	).Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.Goal, &l.City, &l.Source, &l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadRepository) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + leadCols + ` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.Goal, &l.City, &l.Source, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
