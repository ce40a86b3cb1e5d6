package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// SetupRepository stores one-time account setup codes issued after a trainer
// activation. The short code is bcrypt-hashed at rest; the magic token is a
// random capability consumed on first use.
type SetupRepository interface {
	CreateSetupCode(ctx context.Context, trainerID, email, code, magic string, expiresAt time.Time) error
	CheckSetupCode(ctx context.Context, email, code string) (string, bool, error)
	ConsumeSetupMagic(ctx context.Context, token string) (string, bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type setupRepository struct {
	pool *pgxpool.Pool
}

func NewSetupRepository(pool *pgxpool.Pool) SetupRepository {
	return &setupRepository{pool: pool}
}

func (r *setupRepository) CreateSetupCode(ctx context.Context, trainerID, email, code, magic string, expiresAt time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO account_setup_codes(trainer_id, email, code_hash, token, expires_at)
		VALUES($1,$2,$3,$4,$5)
	`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err = r.pool.Exec(ctx, q, trainerID, email, string(hash), magic, expiresAt)
	return err
}

// CheckSetupCode verifies the short code for an email and marks it used.
// Returns the trainer id the code belongs to.
func (r *setupRepository) CheckSetupCode(ctx context.Context, email, code string) (string, bool, error) {
	const q = `
		SELECT id, trainer_id, code_hash, expires_at, used_at
		FROM account_setup_codes
		WHERE lower(email)=lower($1)
		ORDER BY id DESC
		LIMIT 1
	`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		id        int64
		trainerID string
		hash      string
		expires   time.Time
		used      *time.Time
	)
	err := r.pool.QueryRow(ctx, q, email).Scan(&id, &trainerID, &hash, &expires, &used)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	if used != nil || time.Now().After(expires) {
		return "", false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		// bump attempts
		_, _ = r.pool.Exec(ctx, `UPDATE account_setup_codes SET attempts=attempts+1 WHERE id=$1`, id)
		return "", false, nil
	}
	_, _ = r.pool.Exec(ctx, `UPDATE account_setup_codes SET used_at=now() WHERE id=$1`, id)
	return trainerID, true, nil
}

// ConsumeSetupMagic resolves a magic-link token to its trainer id and burns
// it.
func (r *setupRepository) ConsumeSetupMagic(ctx context.Context, token string) (string, bool, error) {
	const q = `
		SELECT id, trainer_id, expires_at, used_at
		FROM account_setup_codes
		WHERE token=$1
	`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		id        int64
		trainerID string
		expires   time.Time
		used      *time.Time
	)
	if err := r.pool.QueryRow(ctx, q, token).Scan(&id, &trainerID, &expires, &used); err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	if used != nil || time.Now().After(expires) {
		return "", false, nil
	}
	_, _ = r.pool.Exec(ctx, `UPDATE account_setup_codes SET used_at=now() WHERE id=$1`, id)
	return trainerID, true, nil
}

func (r *setupRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM account_setup_codes
		WHERE (used_at IS NOT NULL AND used_at < now() - interval '30 days')
		   OR (used_at IS NULL AND expires_at < now() - interval '30 days')
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
