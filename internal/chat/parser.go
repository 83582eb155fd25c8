// Package chat parses free-form applicant messages from the webhook channel
// into structured input, and formats recommendation results as plain-text
// replies suitable for messaging surfaces.
package chat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// amountPattern matches the first monetary figure in a message. Accepts
// optional currency markers and Indian digit grouping ("₹45,000", "rs 45000").
var amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(k|l|lakh|lac)?\b`)

// occupationSynonyms maps message keywords to canonical occupations. Longer
// phrases are listed first so "self employed" wins over "employed".
var occupationSynonyms = []struct {
	keyword    string
	occupation model.Occupation
}{
	{"self-employed", model.OccupationSelfEmployed},
	{"self employed", model.OccupationSelfEmployed},
	{"business owner", model.OccupationSelfEmployed},
	{"shop owner", model.OccupationSelfEmployed},
	{"gig-worker", model.OccupationGigWorker},
	{"gig worker", model.OccupationGigWorker},
	{"delivery", model.OccupationGigWorker},
	{"driver", model.OccupationGigWorker},
	{"rider", model.OccupationGigWorker},
	{"freelancer", model.OccupationFreelancer},
	{"freelance", model.OccupationFreelancer},
	{"consultant", model.OccupationFreelancer},
	{"farmer", model.OccupationFarmer},
	{"farming", model.OccupationFarmer},
	{"agriculture", model.OccupationFarmer},
	{"informal", model.OccupationInformal},
	{"daily wage", model.OccupationInformal},
	{"labourer", model.OccupationInformal},
	{"laborer", model.OccupationInformal},
	{"salaried", model.OccupationSalaried},
	{"salary", model.OccupationSalaried},
	{"employed", model.OccupationSalaried},
	{"job", model.OccupationSalaried},
}

// ParseMessage extracts a monthly income and an occupation from free text.
// Both must be present; anything else in the message is ignored.
func ParseMessage(text string) (model.ApplicantInput, error) {
	var input model.ApplicantInput

	income, ok := parseAmount(text)
	if !ok {
		return input, eris.Wrap(model.ErrInvalidInput, "no income amount found in message")
	}

	occupation, ok := parseOccupation(text)
	if !ok {
		return input, eris.Wrap(model.ErrInvalidInput, "no occupation found in message")
	}

	input.Income = income
	input.Occupation = occupation
	return input, input.Validate()
}

func parseAmount(text string) (float64, bool) {
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "k":
			v *= 1_000
		case "l", "lakh", "lac":
			v *= 100_000
		}
		// Bare small numbers ("I have 2 kids") are noise, not income.
		if v < 100 {
			continue
		}
		return v, true
	}
	return 0, false
}

func parseOccupation(text string) (model.Occupation, bool) {
	lower := strings.ToLower(text)
	for _, s := range occupationSynonyms {
		if strings.Contains(lower, s.keyword) {
			return s.occupation, true
		}
	}
	return "", false
}

// FormatReply renders a recommendation as a short plain-text message.
func FormatReply(r *model.RecommendationResult) string {
	var b strings.Builder

	b.WriteString("CreditVision score: " + strconv.Itoa(int(r.Score)) + " (" + r.Score.Rating() + ")\n")
	b.WriteString("Tier: " + r.Offer.LenderTier + "\n")
	b.WriteString("Eligible loan: " + formatAmount(r.Offer.Principal) +
		" at " + strconv.FormatFloat(r.Offer.AnnualRatePercent, 'f', 2, 64) + "% p.a. for " +
		strconv.Itoa(r.Offer.TermMonths) + " months\n")
	b.WriteString("EMI: " + formatAmount(r.Offer.EMI) + "/month\n\n")
	b.WriteString(r.Rationale)
	return b.String()
}

var printer = message.NewPrinter(language.English)

func formatAmount(v float64) string {
	return printer.Sprintf("₹%.0f", v)
}
