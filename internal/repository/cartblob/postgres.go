package cartblob

import (
	"context"
	"errors"

	"boutique-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres stores blobs in the cart_blobs table created by internal/migrate.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (r *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT blob::text
FROM cart_blobs
WHERE storage_key = $1
`
	var blob string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return []byte(blob), nil
}

func (r *postgresStore) Set(ctx context.Context, key string, blob []byte) error {
	const q = `
INSERT INTO cart_blobs (storage_key, blob, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (storage_key) DO UPDATE
SET blob = EXCLUDED.blob,
    updated_at = EXCLUDED.updated_at
`
	_, err := r.pool.Exec(ctx, q, key, string(blob))
	return err
}

func (r *postgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
