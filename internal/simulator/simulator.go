// Package simulator produces the alternative-data signals the scoring engine
// consumes. The random provider stands in for real data feeds; tests inject
// the deterministic Fixed provider instead.
package simulator

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

// Provider supplies alternative-data features for an applicant.
type Provider interface {
	Provide(ctx context.Context, occupation model.Occupation, income float64) (model.AltDataFeatures, error)
}

// stabilityPolicy maps occupation categories to a location-stability
// expectation. Policy table, not learned: categories historically associated
// with residential permanence get higher values.
var stabilityPolicy = map[model.Occupation]float64{
	model.OccupationSalaried:     0.90,
	model.OccupationSelfEmployed: 0.65,
	model.OccupationGigWorker:    0.60,
	model.OccupationFreelancer:   0.55,
	model.OccupationInformal:     0.50,
	model.OccupationFarmer:       0.40,
}

// maxPoissonMean bounds the simulated transaction expectation so sampling
// stays cheap at extreme incomes.
const maxPoissonMean = 500

// Random draws features from the configured distributions. Safe for
// concurrent use: the underlying rand source is guarded by a mutex.
type Random struct {
	cfg config.SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random provider. A non-zero cfg.Seed fixes the random
// source for reproducible runs.
func NewRandom(cfg config.SimulatorConfig) *Random {
	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewPCG(cfg.Seed, cfg.Seed)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Random{cfg: cfg, rng: rand.New(src)}
}

// Provide draws one feature vector. Location stability is occupation-weighted
// uniform noise around the policy value; mobile usage is uniform over
// [0,100]; the UPI count is Poisson with an income-scaled mean, so its
// expectation is non-decreasing in income.
func (p *Random) Provide(_ context.Context, occupation model.Occupation, income float64) (model.AltDataFeatures, error) {
	if !occupation.Valid() {
		return model.AltDataFeatures{}, eris.Wrapf(model.ErrInvalidInput, "unknown occupation %q", occupation)
	}
	if income <= 0 {
		return model.AltDataFeatures{}, eris.Wrapf(model.ErrInvalidInput, "income must be > 0 (got %.2f)", income)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	base := stabilityPolicy[occupation]
	jitter := (p.rng.Float64()*2 - 1) * p.cfg.StabilityJitter
	stability := math.Min(math.Max(base+jitter, 0), 1)

	mean := p.cfg.TransactionBase
	if p.cfg.TransactionIncomeScale > 0 {
		mean += income / p.cfg.TransactionIncomeScale
	}
	mean = math.Min(mean, maxPoissonMean)

	return model.AltDataFeatures{
		LocationStability:   stability,
		MobileUsageScore:    p.rng.Float64() * 100,
		UPITransactionCount: p.poisson(mean),
	}, nil
}

// poisson samples a Poisson variate. Knuth's method for small means; a
// normal approximation above 30, where Knuth degrades to O(mean) multiplies.
func (p *Random) poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}

	if mean > 30 {
		v := mean + math.Sqrt(mean)*p.rng.NormFloat64()
		if v < 0 {
			return 0
		}
		return int(math.Round(v))
	}

	limit := math.Exp(-mean)
	k := 0
	prod := p.rng.Float64()
	for prod > limit {
		k++
		prod *= p.rng.Float64()
	}
	return k
}
