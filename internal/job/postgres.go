package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time assertion that PostgresStore satisfies the Store interface.
var _ Store = (*PostgresStore)(nil)

// ddlJobOffers creates the listings table. Translations are kept as JSONB so
// the column stays nullable and future local languages need no schema change.
const ddlJobOffers = `
CREATE TABLE IF NOT EXISTS job_offers (
    id               TEXT         PRIMARY KEY,
    title            TEXT         NOT NULL,
    location         TEXT         NOT NULL,
    store_name       TEXT         NOT NULL DEFAULT '',
    country          TEXT         NOT NULL DEFAULT '',
    work_mode        TEXT         NOT NULL DEFAULT '',
    required_profile TEXT         NOT NULL DEFAULT '',
    phone            TEXT         NOT NULL DEFAULT '',
    whatsapp         TEXT         NOT NULL DEFAULT '',
    certified        BOOLEAN      NOT NULL DEFAULT false,
    posted_at        TIMESTAMPTZ  NOT NULL DEFAULT now(),
    translations     JSONB
);

CREATE INDEX IF NOT EXISTS idx_job_offers_posted_at
    ON job_offers (posted_at DESC);

CREATE INDEX IF NOT EXISTS idx_job_offers_certified
    ON job_offers (certified);
`

// PostgresStore is a PostgreSQL-backed implementation of [Store] holding a
// single [pgxpool.Pool]. All operations are safe for concurrent use.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore establishes a connection pool to the database at dsn and
// runs [MigrateJobs] to ensure the listings table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("job: postgres store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("job: postgres store: ping: %w", err)
	}

	if err := MigrateJobs(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("job: postgres store: migrate: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStoreWithPool wraps an existing pool without migrating. Used when
// the pool is shared with the semantic index, which migrates its own schema.
func NewPostgresStoreWithPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// MigrateJobs creates or ensures the listings table and its indexes exist.
// It is idempotent and safe to call on every application start.
func MigrateJobs(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlJobOffers); err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	return nil
}

// Pool exposes the underlying connection pool for readiness checks and the
// semantic index, which shares the same database.
func (s *PostgresStore) Pool() *pgxpool.Pool { return s.pool }

// Close releases all connections held by the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Add implements [Store.Add].
func (s *PostgresStore) Add(ctx context.Context, offer Offer) (Offer, error) {
	if offer.ID == "" {
		id, err := generateID()
		if err != nil {
			return Offer{}, fmt.Errorf("job: generate id: %w", err)
		}
		offer.ID = id
	}
	if offer.PostedAt.IsZero() {
		offer.PostedAt = time.Now()
	}

	const q = `
		INSERT INTO job_offers
		    (id, title, location, store_name, country, work_mode,
		     required_profile, phone, whatsapp, certified, posted_at, translations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.pool.Exec(ctx, q,
		offer.ID,
		offer.Title,
		offer.Location,
		offer.StoreName,
		offer.Country,
		offer.WorkMode,
		offer.RequiredProfile,
		offer.Phone,
		offer.WhatsApp,
		offer.Certified,
		offer.PostedAt,
		offer.Translations,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Offer{}, ErrDuplicateID
		}
		return Offer{}, fmt.Errorf("job: postgres add: %w", err)
	}
	return offer, nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, id string) (Offer, error) {
	const q = `
		SELECT id, title, location, store_name, country, work_mode,
		       required_profile, phone, whatsapp, certified, posted_at, translations
		FROM   job_offers
		WHERE  id = $1`

	row := s.pool.QueryRow(ctx, q, id)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, ErrNotFound
	}
	if err != nil {
		return Offer{}, fmt.Errorf("job: postgres get: %w", err)
	}
	return o, nil
}

// List implements [Store.List].
func (s *PostgresStore) List(ctx context.Context) ([]Offer, error) {
	const q = `
		SELECT id, title, location, store_name, country, work_mode,
		       required_profile, phone, whatsapp, certified, posted_at, translations
		FROM   job_offers
		ORDER  BY posted_at DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("job: postgres list: %w", err)
	}

	offers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Offer, error) {
		return scanOffer(row)
	})
	if err != nil {
		return nil, fmt.Errorf("job: postgres list: scan rows: %w", err)
	}
	if offers == nil {
		offers = []Offer{}
	}
	return offers, nil
}

// Prune implements [Store.Prune].
func (s *PostgresStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_offers WHERE posted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("job: postgres prune: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Reset implements [Store.Reset].
func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM job_offers`); err != nil {
		return fmt.Errorf("job: postgres reset: %w", err)
	}
	return nil
}

// scanOffer scans a single row into an Offer. pgx maps the JSONB translations
// column onto *Translations directly (NULL becomes nil).
func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Location,
		&o.StoreName,
		&o.Country,
		&o.WorkMode,
		&o.RequiredProfile,
		&o.Phone,
		&o.WhatsApp,
		&o.Certified,
		&o.PostedAt,
		&o.Translations,
	)
	return o, err
}
