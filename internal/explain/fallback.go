package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// Fallback renders a deterministic rationale from the structured result. Used
// when no credential is configured and whenever the collaborator fails, so a
// recommendation always carries a non-empty explanation.
type Fallback struct{}

func (Fallback) Explain(_ context.Context, r *model.RecommendationResult) (string, string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Your CreditVision score is %d out of %d, which is considered %s based on our "+
		"alternative data assessment. ", r.Score, model.ScoreMax, r.Score.Rating())
	fmt.Fprintf(&b, "The strongest factor in your profile was %s. ", componentLabel(r.Breakdown.Dominant))
	fmt.Fprintf(&b, "Based on your monthly income of %s, you qualify for the %s tier: a loan of up to %s "+
		"at %.2f%% p.a. over %d months, with an estimated EMI of %s per month. ",
		amount(r.Applicant.Income), r.Offer.LenderTier, amount(r.Offer.Principal),
		r.Offer.AnnualRatePercent, r.Offer.TermMonths, amount(r.Offer.EMI))
	b.WriteString("These figures are illustrative; always verify terms directly with lenders before making any decisions.")

	return b.String(), "fallback", nil
}
