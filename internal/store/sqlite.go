package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS recommendations (
	id         TEXT PRIMARY KEY,
	occupation TEXT NOT NULL,
	income     REAL NOT NULL,
	score      INTEGER NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_recommendations_occupation ON recommendations(occupation);
CREATE INDEX IF NOT EXISTS idx_recommendations_score ON recommendations(score);
CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRecommendation(ctx context.Context, rec *model.Recommendation) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendations (id, occupation, income, score, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Result.Applicant.Occupation), rec.Result.Applicant.Income,
		int(rec.Result.Score), string(resultJSON), rec.CreatedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: insert recommendation")
}

func (s *SQLiteStore) GetRecommendation(ctx context.Context, id string) (*model.Recommendation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, result, created_at FROM recommendations WHERE id = ?`,
		id,
	)

	var rec model.Recommendation
	var resultJSON string
	if err := row.Scan(&rec.ID, &resultJSON, &rec.CreatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: recommendation %s not found", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get recommendation %s", id)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal recommendation %s", id)
	}
	return &rec, nil
}

func (s *SQLiteStore) ListRecommendations(ctx context.Context, filter Filter) ([]model.Recommendation, error) {
	query := `SELECT id, result, created_at FROM recommendations WHERE 1=1`
	var args []any

	if filter.Occupation != "" {
		query += ` AND occupation = ?`
		args = append(args, string(filter.Occupation))
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recommendations")
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		var resultJSON string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &resultJSON, &createdAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan recommendation")
		}
		if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal recommendation %s", rec.ID)
		}
		rec.CreatedAt = createdAt
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list recommendations iterate")
}
