package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

func testSimConfig(seed uint64) config.SimulatorConfig {
	return config.SimulatorConfig{
		Seed:                   seed,
		StabilityJitter:        0.15,
		TransactionBase:        10,
		TransactionIncomeScale: 2000,
	}
}

func TestProvideRanges(t *testing.T) {
	p := NewRandom(testSimConfig(1))
	ctx := context.Background()

	for _, occ := range model.Occupations {
		for i := 0; i < 200; i++ {
			f, err := p.Provide(ctx, occ, 35_000)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, f.LocationStability, 0.0)
			assert.LessOrEqual(t, f.LocationStability, 1.0)
			assert.GreaterOrEqual(t, f.MobileUsageScore, 0.0)
			assert.LessOrEqual(t, f.MobileUsageScore, 100.0)
			assert.GreaterOrEqual(t, f.UPITransactionCount, 0)
		}
	}
}

func TestProvideSeededDeterminism(t *testing.T) {
	ctx := context.Background()

	a := NewRandom(testSimConfig(42))
	b := NewRandom(testSimConfig(42))

	for i := 0; i < 50; i++ {
		fa, err := a.Provide(ctx, model.OccupationGigWorker, 28_000)
		require.NoError(t, err)
		fb, err := b.Provide(ctx, model.OccupationGigWorker, 28_000)
		require.NoError(t, err)
		assert.Equal(t, fa, fb, "draw %d diverged", i)
	}
}

func TestProvideStabilityTracksOccupation(t *testing.T) {
	// With jitter well below the policy gap, a salaried draw always beats a
	// farmer draw.
	cfg := testSimConfig(7)
	cfg.StabilityJitter = 0.05
	p := NewRandom(cfg)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		salaried, err := p.Provide(ctx, model.OccupationSalaried, 40_000)
		require.NoError(t, err)
		farmer, err := p.Provide(ctx, model.OccupationFarmer, 40_000)
		require.NoError(t, err)
		assert.Greater(t, salaried.LocationStability, farmer.LocationStability)
	}
}

func TestProvideTransactionsGrowWithIncome(t *testing.T) {
	p := NewRandom(testSimConfig(11))
	ctx := context.Background()

	const draws = 500
	mean := func(income float64) float64 {
		var sum int
		for i := 0; i < draws; i++ {
			f, err := p.Provide(ctx, model.OccupationSalaried, income)
			require.NoError(t, err)
			sum += f.UPITransactionCount
		}
		return float64(sum) / draws
	}

	low := mean(5_000)
	high := mean(200_000)
	assert.Greater(t, high, low, "expected UPI count mean to grow with income (low %.1f, high %.1f)", low, high)
}

func TestProvideInvalidInput(t *testing.T) {
	p := NewRandom(testSimConfig(3))
	ctx := context.Background()

	_, err := p.Provide(ctx, "plumber", 30_000)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = p.Provide(ctx, model.OccupationSalaried, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestFixedProvider(t *testing.T) {
	want := model.AltDataFeatures{
		LocationStability:   0.8,
		MobileUsageScore:    90,
		UPITransactionCount: 40,
	}
	p := Fixed{Features: want}

	got, err := p.Provide(context.Background(), model.OccupationSalaried, 50_000)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
