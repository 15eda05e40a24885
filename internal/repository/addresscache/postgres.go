package addresscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Repository = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const getQuery = `
SELECT address FROM verified_addresses
WHERE hash = $1 AND verified_at > $2`

func (p *Postgres) Get(ctx context.Context, hash string, maxAge time.Duration) (*business.Address, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var raw []byte
	err := p.pool.QueryRow(ctx, getQuery, hash, cutoff).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get verified address")
	}

	var addr business.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, errors.Wrap(err, "decode verified address")
	}
	return &addr, nil
}

const putQuery = `
INSERT INTO verified_addresses (hash, address, verified_at)
VALUES ($1, $2, $3)
ON CONFLICT (hash) DO UPDATE SET
    address = EXCLUDED.address,
    verified_at = EXCLUDED.verified_at`

func (p *Postgres) Put(ctx context.Context, hash string, addr business.Address) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return errors.Wrap(err, "encode verified address")
	}
	_, err = p.pool.Exec(ctx, putQuery, hash, raw, time.Now().UTC())
	return errors.Wrap(err, "put verified address")
}
