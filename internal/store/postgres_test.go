package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_SaveRecommendation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rec := testRecommendation("rec-1", model.OccupationSalaried, 750)
	resultJSON, err := json.Marshal(rec.Result)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs("rec-1", "salaried", 50_000.0, 750, resultJSON, rec.CreatedAt.UTC()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRecommendation(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecommendation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rec := testRecommendation("rec-1", model.OccupationSalaried, 750)
	resultJSON, err := json.Marshal(rec.Result)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "result", "created_at"}).
		AddRow("rec-1", resultJSON, rec.CreatedAt)
	mock.ExpectQuery(`SELECT id, result, created_at FROM recommendations WHERE id = \$1`).
		WithArgs("rec-1").
		WillReturnRows(rows)

	got, err := s.GetRecommendation(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Result, got.Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecommendation_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, result, created_at FROM recommendations WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRecommendation(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecommendations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rec := testRecommendation("rec-1", model.OccupationSalaried, 750)
	resultJSON, err := json.Marshal(rec.Result)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "result", "created_at"}).
		AddRow("rec-1", resultJSON, rec.CreatedAt)
	mock.ExpectQuery(`SELECT id, result, created_at FROM recommendations WHERE 1=1 AND occupation = \$1 AND score >= \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs("salaried", 700, 10).
		WillReturnRows(rows)

	recs, err := s.ListRecommendations(context.Background(), Filter{
		Occupation: model.OccupationSalaried,
		MinScore:   700,
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS recommendations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
