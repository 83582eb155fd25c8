package explain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/creditvision/creditvision-cli/internal/model"
)

const systemPrompt = `You are a financial advisor helping applicants with thin or no formal ` +
	`credit files understand a simulated credit assessment. Explain clearly and simply why the ` +
	`score and loan offer came out the way they did, reference the dominant signal, and close ` +
	`with one sentence reminding the reader to verify terms directly with lenders. Keep it to ` +
	`4-5 sentences. Amounts are in Indian rupees.`

var printer = message.NewPrinter(language.English)

// amount renders a rupee figure with digit grouping.
func amount(v float64) string {
	return printer.Sprintf("₹%.0f", v)
}

// componentLabels maps breakdown component names to prompt-friendly phrases.
var componentLabels = map[string]string{
	"location_stability": "location stability",
	"mobile_usage":       "mobile usage",
	"transactions":       "digital transaction activity",
	"income":             "declared income",
}

// BuildPrompt constructs the deterministic prompt payload from the structured
// result. Same result, same prompt: the explanation is reproducible in
// content even though the collaborator's phrasing is not.
func BuildPrompt(r *model.RecommendationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Applicant profile:\n")
	fmt.Fprintf(&b, "- Occupation: %s\n", r.Applicant.Occupation)
	fmt.Fprintf(&b, "- Monthly income: %s\n", amount(r.Applicant.Income))
	fmt.Fprintf(&b, "\nAssessment:\n")
	fmt.Fprintf(&b, "- Civil score: %d of %d (%s)\n", r.Score, model.ScoreMax, r.Score.Rating())
	fmt.Fprintf(&b, "- Dominant signal: %s\n", componentLabel(r.Breakdown.Dominant))
	fmt.Fprintf(&b, "- Signals: location stability %.2f, mobile usage %.0f/100, %d digital transactions/month\n",
		r.Features.LocationStability, r.Features.MobileUsageScore, r.Features.UPITransactionCount)
	fmt.Fprintf(&b, "\nSelected offer (%s tier):\n", r.Offer.LenderTier)
	fmt.Fprintf(&b, "- Principal: %s\n", amount(r.Offer.Principal))
	fmt.Fprintf(&b, "- Rate: %.2f%% p.a. over %d months\n", r.Offer.AnnualRatePercent, r.Offer.TermMonths)
	fmt.Fprintf(&b, "- EMI: %s/month\n", amount(r.Offer.EMI))
	fmt.Fprintf(&b, "\nExplain this assessment to the applicant.")

	return b.String()
}

func componentLabel(name string) string {
	if label, ok := componentLabels[name]; ok {
		return label
	}
	return name
}
