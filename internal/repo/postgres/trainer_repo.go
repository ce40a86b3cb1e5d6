package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juicefit/juice-platform/internal/domain"
)

type TrainerRepository interface {
	CreateFromPreview(ctx context.Context, preview *domain.TempTrainer) (*domain.Trainer, error)
	GetByID(ctx context.Context, id string) (*domain.Trainer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Trainer, error)
	ListActive(ctx context.Context) ([]domain.Trainer, error)
	Update(ctx context.Context, id string, patch domain.TrainerPatch) (*domain.Trainer, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
}

type trainerRepository struct {
	pool *pgxpool.Pool
}

func NewTrainerRepository(pool *pgxpool.Pool) TrainerRepository {
	return &trainerRepository{pool: pool}
}

const trainerCols = `id, name, email, bio, city, country, specialties, services,
pricing, rating, latitude, longitude, remote_available, password_hash,
is_active, created_at, updated_at`

func scanTrainer(row pgx.Row) (*domain.Trainer, error) {
	var t domain.Trainer
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Bio, &t.City, &t.Country, &t.Specialties, &t.Services,
		&t.Pricing, &t.Rating, &t.Latitude, &t.Longitude, &t.RemoteAvailable, &t.PasswordHash,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateFromPreview promotes a paid temp record into a live directory
// profile. The preview's specialization becomes the first specialty tag.
func (r *trainerRepository) CreateFromPreview(ctx context.Context, preview *domain.TempTrainer) (*domain.Trainer, error) {
	const q = `INSERT INTO trainers (
		id, name, email, bio, city, country, specialties, services,
		pricing, rating, remote_available, password_hash, is_active
	) VALUES ($1,$2,$3,$4,'','',$5,$6,$7,0,true,'',true)
	ON CONFLICT (email) DO NOTHING
	RETURNING ` + trainerCols

	view := domain.Normalize(preview)
	specialties := []string{view.Specialization}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTrainer(r.pool.QueryRow(ctx, q,
		uuid.NewString(), view.Name, view.Email,
		view.Bio, specialties, view.Services, view.Pricing,
	))
}

func (r *trainerRepository) GetByID(ctx context.Context, id string) (*domain.Trainer, error) {
	const q = `SELECT ` + trainerCols + ` FROM trainers WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTrainer(r.pool.QueryRow(ctx, q, id))
}

func (r *trainerRepository) FindByEmail(ctx context.Context, email string) (*domain.Trainer, error) {
	const q = `SELECT ` + trainerCols + ` FROM trainers WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTrainer(r.pool.QueryRow(ctx, q, email))
}

func (r *trainerRepository) ListActive(ctx context.Context) ([]domain.Trainer, error) {
	const q = `SELECT ` + trainerCols + ` FROM trainers WHERE is_active ORDER BY created_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainers []domain.Trainer
	for rows.Next() {
		var t domain.Trainer
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Email, &t.Bio, &t.City, &t.Country, &t.Specialties, &t.Services,
			&t.Pricing, &t.Rating, &t.Latitude, &t.Longitude, &t.RemoteAvailable, &t.PasswordHash,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}

func (r *trainerRepository) Update(ctx context.Context, id string, patch domain.TrainerPatch) (*domain.Trainer, error) {
	const q = `
		UPDATE trainers
		SET
			name             = COALESCE($2, name),
			bio              = COALESCE($3, bio),
			city             = COALESCE($4, city),
			country          = COALESCE($5, country),
			specialties      = COALESCE($6, specialties),
			services         = COALESCE($7, services),
			pricing          = COALESCE($8, pricing),
			latitude         = COALESCE($9, latitude),
			longitude        = COALESCE($10, longitude),
			remote_available = COALESCE($11, remote_available),
			updated_at       = now()
		WHERE id=$1
		RETURNING ` + trainerCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTrainer(r.pool.QueryRow(ctx, q,
		id,
		patch.Name,
		patch.Bio,
		patch.City,
		patch.Country,
		patch.Specialties,
		patch.Services,
		patch.Pricing,
		patch.Latitude,
		patch.Longitude,
		patch.RemoteAvailable,
	))
}

func (r *trainerRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	const q = `UPDATE trainers SET password_hash=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, hash)
	return err
}
