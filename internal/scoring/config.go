// Package scoring implements the civil-score heuristic and loan matching.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

// DefaultScoringConfig returns a config.ScoringConfig with the documented
// default weights. Weights sum to 100.
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		LocationWeight:    25,
		MobileUsageWeight: 25,
		TransactionWeight: 25,
		IncomeWeight:      25,

		TransactionCap:      50,
		IncomeCeiling:       100_000,
		MaxEMIToIncomeRatio: 0.45,
	}
}

// DefaultTiers returns the static loan tier table. Bands are contiguous and
// cover the full score scale with no gaps.
func DefaultTiers() []config.LoanTier {
	return []config.LoanTier{
		{
			Name:            "high-risk",
			MinScore:        300,
			MaxScore:        549,
			IncomeMultiple:  1.5,
			BaseRatePercent: 13.5,
			MinRatePercent:  12.0,
			MaxRatePercent:  15.0,
			TermMonths:      120,
		},
		{
			Name:            "standard",
			MinScore:        550,
			MaxScore:        699,
			IncomeMultiple:  2.5,
			BaseRatePercent: 10.5,
			MinRatePercent:  9.0,
			MaxRatePercent:  12.0,
			TermMonths:      180,
		},
		{
			Name:            "preferred",
			MinScore:        700,
			MaxScore:        900,
			IncomeMultiple:  4.0,
			BaseRatePercent: 8.5,
			MinRatePercent:  7.0,
			MaxRatePercent:  9.5,
			TermMonths:      240,
		},
	}
}

// WeightSum returns the sum of all component weights.
func WeightSum(c config.ScoringConfig) float64 {
	return c.LocationWeight + c.MobileUsageWeight + c.TransactionWeight + c.IncomeWeight
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	weights := map[string]float64{
		"location_weight":     c.LocationWeight,
		"mobile_usage_weight": c.MobileUsageWeight,
		"transaction_weight":  c.TransactionWeight,
		"income_weight":       c.IncomeWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	// Weights should be close to 100 (allow tolerance for floating-point).
	if math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("weights should sum to 100, got %.1f", sum))
	}

	if c.TransactionCap <= 0 {
		errs = append(errs, "transaction_cap must be > 0")
	}
	if c.IncomeCeiling <= 0 {
		errs = append(errs, "income_ceiling must be > 0")
	}
	if c.MaxEMIToIncomeRatio <= 0 || c.MaxEMIToIncomeRatio > 1 {
		errs = append(errs, "max_emi_to_income_ratio must be in (0,1]")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateTiers checks that the tier table is an ordered, contiguous,
// non-overlapping cover of the full [ScoreMin, ScoreMax] scale. Run once at
// startup so the exhaustiveness property is mechanically guaranteed.
func ValidateTiers(tiers []config.LoanTier) error {
	if len(tiers) == 0 {
		return eris.New("scoring: tier table is empty")
	}

	var errs []string

	if tiers[0].MinScore != model.ScoreMin {
		errs = append(errs, fmt.Sprintf("first tier must start at %d, got %d", model.ScoreMin, tiers[0].MinScore))
	}
	if tiers[len(tiers)-1].MaxScore != model.ScoreMax {
		errs = append(errs, fmt.Sprintf("last tier must end at %d, got %d", model.ScoreMax, tiers[len(tiers)-1].MaxScore))
	}

	for i, t := range tiers {
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("tier %d has no name", i))
		}
		if t.MinScore > t.MaxScore {
			errs = append(errs, fmt.Sprintf("tier %q: min_score %d > max_score %d", t.Name, t.MinScore, t.MaxScore))
		}
		if t.IncomeMultiple <= 0 {
			errs = append(errs, fmt.Sprintf("tier %q: income_multiple must be > 0", t.Name))
		}
		if t.TermMonths <= 0 {
			errs = append(errs, fmt.Sprintf("tier %q: term_months must be > 0", t.Name))
		}
		if t.MinRatePercent < 0 || t.MaxRatePercent < t.MinRatePercent {
			errs = append(errs, fmt.Sprintf("tier %q: rate bounds invalid", t.Name))
		}
		if t.BaseRatePercent < t.MinRatePercent || t.BaseRatePercent > t.MaxRatePercent {
			errs = append(errs, fmt.Sprintf("tier %q: base rate outside [min,max]", t.Name))
		}
		if i > 0 {
			prev := tiers[i-1]
			if t.MinScore != prev.MaxScore+1 {
				errs = append(errs, fmt.Sprintf("tier %q: band not contiguous with %q (%d..%d then %d..%d)",
					t.Name, prev.Name, prev.MinScore, prev.MaxScore, t.MinScore, t.MaxScore))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: tier validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
