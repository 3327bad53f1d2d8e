package repo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository provides typed access to Supabase (Postgres) resources.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	schema string
}

var _ Repository = (*PostgresRepository)(nil)

// New opens a new connection pool to the database with the desired search_path.
func New(ctx context.Context, databaseURL, schema string, logger *slog.Logger) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	if schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = schema
	}
	// Supabase's pooler runs in transaction mode and cannot hold prepared statements.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		logger: logger.With("component", "repo"),
		schema: schema,
	}

	if err := r.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return r, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Ping ensures the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// RunMigrations applies the embedded postgres migrations.
func (r *PostgresRepository) RunMigrations(ctx context.Context) error {
	return migratePostgres(ctx, r.pool)
}

// InsertMerchant creates a merchant account.
func (r *PostgresRepository) InsertMerchant(ctx context.Context, m Merchant) (*Merchant, error) {
	const q = `
INSERT INTO merchants (id, merchant_id, name, password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + merchantColumns + `;
`
	out, err := scanMerchant(r.pool.QueryRow(ctx, q,
		idOrNew(m.ID), m.MerchantID, m.Name, m.Password, stamp(m.CreatedAt), stamp(m.UpdatedAt)))
	if err != nil {
		return nil, wrap(err, "insert merchant")
	}
	return out, nil
}

// FindMerchantByCredentials matches a merchant by public handle and password.
func (r *PostgresRepository) FindMerchantByCredentials(ctx context.Context, merchantID, password string) (*Merchant, error) {
	const q = `
SELECT ` + merchantColumns + `
FROM merchants
WHERE merchant_id = $1 AND password = $2
LIMIT 1;
`
	m, err := scanMerchant(r.pool.QueryRow(ctx, q, merchantID, password))
	if err != nil {
		return nil, wrap(err, "find merchant by credentials")
	}
	return m, nil
}

// ResolveMerchantID maps a public merchant handle to the internal id.
func (r *PostgresRepository) ResolveMerchantID(ctx context.Context, merchantID string) (string, error) {
	const q = `SELECT id FROM merchants WHERE merchant_id = $1 LIMIT 1`
	var id string
	if err := r.pool.QueryRow(ctx, q, merchantID).Scan(&id); err != nil {
		return "", wrap(err, "resolve merchant id")
	}
	return id, nil
}

func pgPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return randomUUID()
}

func randomUUID() string {
	return uuid.NewString()
}
