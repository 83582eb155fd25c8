package scoring

import "math"

// roundTo2 rounds a float64 to 2 decimal places.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EMI computes the equated monthly installment under standard amortization:
// P * r * (1+r)^n / ((1+r)^n - 1) with r the monthly rate and n the term in
// months. The degenerate r == 0 case falls back to P/n.
func EMI(principal, annualRatePercent float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	r := annualRatePercent / 100 / 12
	n := float64(termMonths)

	if r == 0 {
		return principal / n
	}

	factor := math.Pow(1+r, n)
	return principal * r * factor / (factor - 1)
}

// MaxPrincipalForEMI returns the largest principal whose EMI does not exceed
// maxEMI, via the present value of an annuity: EMI * (1 - (1+r)^-n) / r.
func MaxPrincipalForEMI(maxEMI, annualRatePercent float64, termMonths int) float64 {
	if maxEMI <= 0 || termMonths <= 0 {
		return 0
	}

	r := annualRatePercent / 100 / 12
	n := float64(termMonths)

	if r == 0 {
		return maxEMI * n
	}

	return maxEMI * (1 - math.Pow(1+r, -n)) / r
}
