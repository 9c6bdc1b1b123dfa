package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"roomie-match/internal/domain"
)

// EmbeddingRepository es el sink de persistencia de vectores. El engine
// emite tuplas (perfil, vector, timestamp) pero nunca depende de leerlas de
// vuelta dentro de una misma corrida de matching.
type EmbeddingRepository interface {
	Upsert(ctx context.Context, profileID string, embedding pgvector.Vector, createdAt time.Time) error
	GetByProfileID(ctx context.Context, profileID string) (domain.StoredEmbedding, error)
	Nearest(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.StoredEmbedding, error)
}

type PgEmbeddingRepository struct {
	pool *pgxpool.Pool
}

func NewPgEmbeddingRepository(pool *pgxpool.Pool) *PgEmbeddingRepository {
	return &PgEmbeddingRepository{pool: pool}
}

func (r *PgEmbeddingRepository) Upsert(ctx context.Context, profileID string, embedding pgvector.Vector, createdAt time.Time) error {
	const query = `
		INSERT INTO profile_embeddings (profile_id, embedding, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO UPDATE SET embedding = EXCLUDED.embedding, created_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query, profileID, embedding, createdAt)
	return err
}

func (r *PgEmbeddingRepository) GetByProfileID(ctx context.Context, profileID string) (domain.StoredEmbedding, error) {
	const query = `
		SELECT profile_id, embedding, created_at
		FROM profile_embeddings
		WHERE profile_id = $1
	`
	var stored domain.StoredEmbedding
	err := r.pool.QueryRow(ctx, query, profileID).Scan(
		&stored.ProfileID,
		&stored.Embedding,
		&stored.CreatedAt,
	)
	return stored, err
}

// Nearest lista los k vectores mas cercanos por distancia coseno.
func (r *PgEmbeddingRepository) Nearest(ctx context.Context, embedding pgvector.Vector, k int) ([]domain.StoredEmbedding, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT profile_id, embedding, created_at
		FROM profile_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, embedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEmbeddings(rows)
}

func scanEmbeddings(rows pgxRows) ([]domain.StoredEmbedding, error) {
	var stored []domain.StoredEmbedding
	for rows.Next() {
		var s domain.StoredEmbedding
		if err := rows.Scan(&s.ProfileID, &s.Embedding, &s.CreatedAt); err != nil {
			return nil, err
		}
		stored = append(stored, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stored, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
