package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which keeps the postgres backend unit-testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS recommendations (
	id         TEXT PRIMARY KEY,
	occupation TEXT NOT NULL,
	income     DOUBLE PRECISION NOT NULL,
	score      INTEGER NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_recommendations_occupation ON recommendations(occupation);
CREATE INDEX IF NOT EXISTS idx_recommendations_score ON recommendations(score);
CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRecommendation(ctx context.Context, rec *model.Recommendation) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO recommendations (id, occupation, income, score, result, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, string(rec.Result.Applicant.Occupation), rec.Result.Applicant.Income,
		int(rec.Result.Score), resultJSON, rec.CreatedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: insert recommendation")
}

func (s *PostgresStore) GetRecommendation(ctx context.Context, id string) (*model.Recommendation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, result, created_at FROM recommendations WHERE id = $1`,
		id,
	)

	var rec model.Recommendation
	var resultJSON []byte
	if err := row.Scan(&rec.ID, &resultJSON, &rec.CreatedAt); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: recommendation %s not found", id)
		}
		return nil, eris.Wrapf(err, "postgres: get recommendation %s", id)
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal recommendation %s", id)
	}
	return &rec, nil
}

func (s *PostgresStore) ListRecommendations(ctx context.Context, filter Filter) ([]model.Recommendation, error) {
	query := `SELECT id, result, created_at FROM recommendations WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Occupation != "" {
		query += ` AND occupation = $` + strconv.Itoa(argNum)
		args = append(args, string(filter.Occupation))
		argNum++
	}
	if filter.MinScore > 0 {
		query += ` AND score >= $` + strconv.Itoa(argNum)
		args = append(args, filter.MinScore)
		argNum++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT $` + strconv.Itoa(argNum)
	args = append(args, limit)
	argNum++

	if filter.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recommendations")
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var resultJSON []byte
		if err := rows.Scan(&rec.ID, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan recommendation")
		}
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal recommendation %s", rec.ID)
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list recommendations iterate")
}
