package model

// LoanOffer is the loan selected for an applicant from the tier table,
// with the full EMI breakdown.
type LoanOffer struct {
	LenderTier        string  `json:"lender_tier"`
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
	EMI               float64 `json:"emi"`
	TotalPayment      float64 `json:"total_payment"`
	TotalInterest     float64 `json:"total_interest"`
}
