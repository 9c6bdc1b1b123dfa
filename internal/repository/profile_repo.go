package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomie-match/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) error
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Create(ctx context.Context, profile domain.Profile) error {
	const query = `
		INSERT INTO profiles (id, name, education, age, description, requirements, traits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Education,
		profile.Age,
		profile.Description,
		profile.Requirements,
		profile.Traits,
		profile.CreatedAt,
	)
	return err
}

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	const query = `
		SELECT id, name, education, age, description, requirements, traits, created_at
		FROM profiles
		WHERE id = $1
	`
	var profile domain.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Education,
		&profile.Age,
		&profile.Description,
		&profile.Requirements,
		&profile.Traits,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	return profile, err
}

// ListByIDs devuelve los perfiles pedidos preservando el orden de ids; los
// ids inexistentes simplemente se omiten.
func (r *PgProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT id, name, education, age, description, requirements, traits, created_at
		FROM profiles
		WHERE id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Profile, len(ids))
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Education,
			&p.Age,
			&p.Description,
			&p.Requirements,
			&p.Traits,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}
