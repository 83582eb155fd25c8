package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

func configStore(driver string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, DatabaseURL: "ignored"}
}

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRecommendation(id string, occupation model.Occupation, score model.CivilScore) *model.Recommendation {
	return &model.Recommendation{
		ID: id,
		Result: model.RecommendationResult{
			Applicant: model.ApplicantInput{Income: 50_000, Occupation: occupation},
			Features: model.AltDataFeatures{
				LocationStability:   0.8,
				MobileUsageScore:    90,
				UPITransactionCount: 40,
			},
			Score: score,
			Offer: model.LoanOffer{
				LenderTier:        "preferred",
				Principal:         2_400_000,
				AnnualRatePercent: 8.38,
				TermMonths:        240,
				EMI:               20_661.21,
			},
			Rationale:       "Strong digital footprint.",
			RationaleSource: "fallback",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	want := testRecommendation("rec-1", model.OccupationSalaried, 750)
	require.NoError(t, s.SaveRecommendation(ctx, want))

	got, err := s.GetRecommendation(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Result, got.Result)
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTestSQLite(t)

	_, err := s.GetRecommendation(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListFilters(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecommendation(ctx, testRecommendation("a", model.OccupationSalaried, 750)))
	require.NoError(t, s.SaveRecommendation(ctx, testRecommendation("b", model.OccupationFarmer, 520)))
	require.NoError(t, s.SaveRecommendation(ctx, testRecommendation("c", model.OccupationSalaried, 610)))

	all, err := s.ListRecommendations(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	salaried, err := s.ListRecommendations(ctx, Filter{Occupation: model.OccupationSalaried})
	require.NoError(t, err)
	assert.Len(t, salaried, 2)

	strong, err := s.ListRecommendations(ctx, Filter{MinScore: 700})
	require.NoError(t, err)
	require.Len(t, strong, 1)
	assert.Equal(t, "a", strong[0].ID)

	limited, err := s.ListRecommendations(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configStore("mysql"))
	require.Error(t, err)
}

func TestOpenDisabled(t *testing.T) {
	s, err := Open(context.Background(), configStore(""))
	require.NoError(t, err)
	assert.Nil(t, s)
}
