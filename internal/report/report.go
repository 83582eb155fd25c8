// Package report renders recommendation results for humans: a plain-text
// report for a single applicant and an xlsx workbook for history exports.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/creditvision/creditvision-cli/internal/model"
)

var printer = message.NewPrinter(language.English)

func amount(v float64) string {
	return printer.Sprintf("₹%.2f", v)
}

var componentLabels = map[string]string{
	"location_stability": "Location stability",
	"mobile_usage":       "Mobile usage",
	"transactions":       "UPI transactions",
	"income":             "Income",
}

// WriteText renders a full plain-text report to w.
func WriteText(w io.Writer, r *model.RecommendationResult, generatedAt time.Time) error {
	var b strings.Builder

	line := strings.Repeat("=", 60)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "CREDITVISION AI - CREDIT ASSESSMENT REPORT")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintln(&b, "APPLICANT")
	fmt.Fprintf(&b, "  Monthly income:  %s\n", amount(r.Applicant.Income))
	fmt.Fprintf(&b, "  Occupation:      %s\n\n", r.Applicant.Occupation)

	fmt.Fprintln(&b, "ALTERNATIVE DATA SIGNALS")
	fmt.Fprintf(&b, "  Location stability:    %.2f\n", r.Features.LocationStability)
	fmt.Fprintf(&b, "  Mobile usage score:    %.1f / 100\n", r.Features.MobileUsageScore)
	fmt.Fprintf(&b, "  UPI transactions/mo:   %d\n\n", r.Features.UPITransactionCount)

	fmt.Fprintln(&b, "SCORE")
	fmt.Fprintf(&b, "  CreditVision score:  %d / %d (%s)\n", r.Score, model.ScoreMax, r.Score.Rating())
	fmt.Fprintf(&b, "  Strongest factor:    %s\n", label(r.Breakdown.Dominant))
	for _, name := range []string{"location_stability", "mobile_usage", "transactions", "income"} {
		if v, ok := r.Breakdown.Components[name]; ok {
			fmt.Fprintf(&b, "    %-22s %.3f\n", label(name)+":", v)
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "LOAN OFFER")
	fmt.Fprintf(&b, "  Lender tier:      %s\n", r.Offer.LenderTier)
	fmt.Fprintf(&b, "  Principal:        %s\n", amount(r.Offer.Principal))
	fmt.Fprintf(&b, "  Interest rate:    %.2f%% p.a.\n", r.Offer.AnnualRatePercent)
	fmt.Fprintf(&b, "  Term:             %d months\n", r.Offer.TermMonths)
	fmt.Fprintf(&b, "  Monthly EMI:      %s\n", amount(r.Offer.EMI))
	fmt.Fprintf(&b, "  Total payment:    %s\n", amount(r.Offer.TotalPayment))
	fmt.Fprintf(&b, "  Total interest:   %s\n\n", amount(r.Offer.TotalInterest))

	fmt.Fprintln(&b, "EXPLANATION")
	fmt.Fprintln(&b, wrap(r.Rationale, 72, "  "))
	fmt.Fprintf(&b, "  (source: %s)\n\n", r.RationaleSource)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "This is a simulated assessment for demonstration purposes only.")
	fmt.Fprintln(&b, "It is not a real credit decision. Verify all terms with lenders.")
	fmt.Fprintln(&b, line)

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write text")
}

func label(name string) string {
	if l, ok := componentLabels[name]; ok {
		return l
	}
	return name
}

// wrap reflows text to the given width with a per-line prefix.
func wrap(text string, width int, prefix string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return prefix
	}
	var b strings.Builder
	lineLen := 0
	b.WriteString(prefix)
	for i, w := range words {
		if i > 0 && lineLen+1+len(w) > width {
			b.WriteString("\n" + prefix)
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
