package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juicefit/juice-platform/internal/domain"
)

type TempTrainerRepository interface {
	Create(ctx context.Context, req *domain.TempTrainerReq) (*domain.TempTrainer, error)
	GetByID(ctx context.Context, id string) (*domain.TempTrainer, error)
	Update(ctx context.Context, id string, patch domain.TempTrainerPatch) (*domain.TempTrainer, error)
	MarkPaid(ctx context.Context, id string) (bool, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.TempTrainer, error)
}

type tempTrainerRepository struct {
	pool *pgxpool.Pool
}

func NewTempTrainerRepository(pool *pgxpool.Pool) TempTrainerRepository {
	return &tempTrainerRepository{pool: pool}
}

const tempTrainerCols = `id, token, name, email, phone, bio, specialization,
certifications, services, pricing, location, instagram, website,
is_paid, is_active, created_at, updated_at`

func scanTempTrainer(row pgx.Row) (*domain.TempTrainer, error) {
	var t domain.TempTrainer
	err := row.Scan(
		&t.ID, &t.Token, &t.Name, &t.Email, &t.Phone, &t.Bio, &t.Specialization,
		&t.Certifications, &t.Services, &t.Pricing, &t.Location, &t.Instagram, &t.Website,
		&t.IsPaid, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tempTrainerRepository) Create(ctx context.Context, req *domain.TempTrainerReq) (*domain.TempTrainer, error) {
	const q = `INSERT INTO temp_trainers (
		id, token, name, email, phone, bio, specialization,
		certifications, services, pricing, location, instagram, website,
		is_paid, is_active
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,false,false)
	RETURNING ` + tempTrainerCols

	// id and token are generated once here and never regenerated or reused.
	id := uuid.NewString()
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTempTrainer(r.pool.QueryRow(ctx, q, id, token,
		req.Name, req.Email, req.Phone, req.Bio, req.Specialization,
		req.Certifications, req.Services, req.Pricing, req.Location,
		req.Instagram, req.Website,
	))
}

func (r *tempTrainerRepository) GetByID(ctx context.Context, id string) (*domain.TempTrainer, error) {
	const q = `SELECT ` + tempTrainerCols + ` FROM temp_trainers WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTempTrainer(r.pool.QueryRow(ctx, q, id))
}

func (r *tempTrainerRepository) Update(ctx context.Context, id string, patch domain.TempTrainerPatch) (*domain.TempTrainer, error) {
	const q = `
		UPDATE temp_trainers
		SET
			name           = COALESCE($2, name),
			phone          = COALESCE($3, phone),
			bio            = COALESCE($4, bio),
			specialization = COALESCE($5, specialization),
			certifications = COALESCE($6, certifications),
			services       = COALESCE($7, services),
			pricing        = COALESCE($8, pricing),
			location       = COALESCE($9, location),
			instagram      = COALESCE($10, instagram),
			website        = COALESCE($11, website),
			updated_at     = now()
		WHERE id=$1
		RETURNING ` + tempTrainerCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTempTrainer(r.pool.QueryRow(ctx, q,
		id,
		patch.Name,
		patch.Phone,
		patch.Bio,
		patch.Specialization,
		patch.Certifications,
		patch.Services,
		patch.Pricing,
		patch.Location,
		patch.Instagram,
		patch.Website,
	))
}

func (r *tempTrainerRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE temp_trainers SET is_paid=true, updated_at=now() WHERE id=$1 AND is_paid=false`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *tempTrainerRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.TempTrainer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + tempTrainerCols + ` FROM temp_trainers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainers []domain.TempTrainer
	for rows.Next() {
		var t domain.TempTrainer
		if err := rows.Scan(
			&t.ID, &t.Token, &t.Name, &t.Email, &t.Phone, &t.Bio, &t.Specialization,
			&t.Certifications, &t.Services, &t.Pricing, &t.Location, &t.Instagram, &t.Website,
			&t.IsPaid, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}
