package scoring

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

// Component names used in score breakdowns.
const (
	ComponentLocation     = "location_stability"
	ComponentMobileUsage  = "mobile_usage"
	ComponentTransactions = "transactions"
	ComponentIncome       = "income"
)

// Engine computes civil scores and matches loan offers. It is pure and
// stateless: safe for concurrent use, deterministic given identical inputs.
type Engine struct {
	cfg   config.ScoringConfig
	tiers []config.LoanTier
}

// NewEngine validates the scoring config and tier table once and returns an
// Engine. Both validations are startup-fatal: a misconfigured policy table
// must never score a request.
func NewEngine(cfg config.ScoringConfig, tiers []config.LoanTier) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, tiers: tiers}, nil
}

// Tiers returns the active tier table.
func (e *Engine) Tiers() []config.LoanTier {
	return e.tiers
}

// Score maps the declared inputs plus simulated features onto the civil score
// scale. Each signal is normalized to [0,1], weighted, and the weighted mean
// is projected linearly onto [ScoreMin, ScoreMax] with a hard clamp.
func (e *Engine) Score(input model.ApplicantInput, features model.AltDataFeatures) (model.CivilScore, model.ScoreBreakdown, error) {
	if err := input.Validate(); err != nil {
		return 0, model.ScoreBreakdown{}, err
	}

	components := map[string]float64{
		ComponentLocation:     clamp01(features.LocationStability),
		ComponentMobileUsage:  clamp01(features.MobileUsageScore / 100),
		ComponentTransactions: scoreTransactions(features.UPITransactionCount, e.cfg.TransactionCap),
		ComponentIncome:       scoreIncome(input.Income, e.cfg.IncomeCeiling),
	}

	weights := map[string]float64{
		ComponentLocation:     e.cfg.LocationWeight,
		ComponentMobileUsage:  e.cfg.MobileUsageWeight,
		ComponentTransactions: e.cfg.TransactionWeight,
		ComponentIncome:       e.cfg.IncomeWeight,
	}

	weightSum := WeightSum(e.cfg)
	weighted := make(map[string]float64, len(components))
	var total float64
	for k, c := range components {
		w := c * weights[k] / weightSum
		weighted[k] = w
		total += w
	}

	raw := model.ScoreMin + total*(model.ScoreMax-model.ScoreMin)

	// Defensive clamp: the normalization keeps raw in range, but extreme
	// feature values must never escape the scale.
	raw = math.Min(math.Max(raw, model.ScoreMin), model.ScoreMax)
	score := model.CivilScore(math.Round(raw))

	breakdown := model.ScoreBreakdown{
		Components: components,
		Weighted:   weighted,
		Dominant:   dominantComponent(weighted),
	}

	return score, breakdown, nil
}

// MatchLoan selects the tier for a score and builds the offer. The tier table
// covers every integer in [ScoreMin, ScoreMax], so a validated engine always
// finds exactly one band.
func (e *Engine) MatchLoan(score model.CivilScore, input model.ApplicantInput) (model.LoanOffer, error) {
	if err := input.Validate(); err != nil {
		return model.LoanOffer{}, err
	}
	if !score.InRange() {
		return model.LoanOffer{}, eris.Wrapf(model.ErrInvalidInput, "score %d outside [%d,%d]", score, model.ScoreMin, model.ScoreMax)
	}

	tier, ok := e.tierFor(score)
	if !ok {
		// Unreachable with a validated table.
		return model.LoanOffer{}, eris.Errorf("scoring: no tier for score %d", score)
	}

	term := input.TenureMonths
	if term <= 0 {
		term = tier.TermMonths
	}

	rate := adjustRate(tier, score)

	// Principal: requested amount (or the tier default), capped by the income
	// multiple and by the maximum serviceable EMI.
	maxByMultiple := tier.IncomeMultiple * input.AnnualIncome()
	principal := input.RequestedPrincipal
	if principal <= 0 {
		principal = maxByMultiple
	}
	principal = math.Min(principal, maxByMultiple)

	maxEMI := e.cfg.MaxEMIToIncomeRatio * input.Income
	principal = math.Min(principal, MaxPrincipalForEMI(maxEMI, rate, term))
	principal = roundTo2(principal)

	emi := roundTo2(EMI(principal, rate, term))
	total := roundTo2(emi * float64(term))

	return model.LoanOffer{
		LenderTier:        tier.Name,
		Principal:         principal,
		AnnualRatePercent: roundTo2(rate),
		TermMonths:        term,
		EMI:               emi,
		TotalPayment:      total,
		TotalInterest:     roundTo2(total - principal),
	}, nil
}

func (e *Engine) tierFor(score model.CivilScore) (config.LoanTier, bool) {
	for _, t := range e.tiers {
		if int(score) >= t.MinScore && int(score) <= t.MaxScore {
			return t, true
		}
	}
	return config.LoanTier{}, false
}

// adjustRate nudges the tier base rate by the score's position in the band:
// band midpoint gets the base rate, the top of the band the best rate.
func adjustRate(tier config.LoanTier, score model.CivilScore) float64 {
	span := float64(tier.MaxScore - tier.MinScore)
	if span == 0 {
		return tier.BaseRatePercent
	}

	mid := float64(tier.MinScore) + span/2
	// 0.25 percentage points per 100 score points from the band midpoint.
	adj := (float64(score) - mid) / 100 * 0.25

	rate := tier.BaseRatePercent - adj
	return math.Min(math.Max(rate, tier.MinRatePercent), tier.MaxRatePercent)
}

// scoreTransactions returns [0,1]: the UPI count relative to the saturation cap.
func scoreTransactions(count, saturation int) float64 {
	if count <= 0 {
		return 0
	}
	if count >= saturation {
		return 1
	}
	return float64(count) / float64(saturation)
}

// scoreIncome returns [0,1]: monthly income relative to the ceiling.
func scoreIncome(income, ceiling float64) float64 {
	if income <= 0 {
		return 0
	}
	return math.Min(income/ceiling, 1)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func dominantComponent(weighted map[string]float64) string {
	var name string
	best := math.Inf(-1)
	for k, v := range weighted {
		if v > best || (v == best && k < name) {
			name, best = k, v
		}
	}
	return name
}
