package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMIZeroRate(t *testing.T) {
	// Degenerate zero-rate case: straight division.
	assert.Equal(t, 1000.0, EMI(12_000, 0, 12))
}

func TestEMIKnownValue(t *testing.T) {
	// 1,00,000 at 12% p.a. over 12 months: the textbook answer is 8,884.88.
	emi := EMI(100_000, 12, 12)
	assert.InDelta(t, 8884.88, emi, 0.01)
}

func TestEMIDegenerateInputs(t *testing.T) {
	assert.Zero(t, EMI(0, 10, 12))
	assert.Zero(t, EMI(-5000, 10, 12))
	assert.Zero(t, EMI(100_000, 10, 0))
}

func TestEMIAmortizes(t *testing.T) {
	// Total payments must cover the principal plus positive interest.
	principal := 250_000.0
	term := 120
	emi := EMI(principal, 9.5, term)
	total := emi * float64(term)
	require.Greater(t, total, principal)
}

func TestMaxPrincipalForEMIRoundTrip(t *testing.T) {
	tests := []struct {
		maxEMI float64
		rate   float64
		term   int
	}{
		{5_000, 10.5, 180},
		{22_500, 8.5, 240},
		{1_200, 13.5, 120},
		{10_000, 0, 60},
	}

	for _, tt := range tests {
		principal := MaxPrincipalForEMI(tt.maxEMI, tt.rate, tt.term)
		require.Positive(t, principal)
		// Feeding the derived principal back must reproduce the EMI cap.
		assert.InDelta(t, tt.maxEMI, EMI(principal, tt.rate, tt.term), 0.01)
	}
}

func TestEMITermRecoverable(t *testing.T) {
	// Inverting the annuity formula for n must recover the original term:
	// n = -ln(1 - P*r/EMI) / ln(1+r).
	principal := 500_000.0
	rate := 10.5
	term := 180

	emi := EMI(principal, rate, term)
	r := rate / 100 / 12
	n := -math.Log(1-principal*r/emi) / math.Log(1+r)
	assert.InDelta(t, float64(term), n, 1e-6)
}

func TestMaxPrincipalForEMIDegenerateInputs(t *testing.T) {
	assert.Zero(t, MaxPrincipalForEMI(0, 10, 12))
	assert.Zero(t, MaxPrincipalForEMI(-100, 10, 12))
	assert.Zero(t, MaxPrincipalForEMI(5_000, 10, 0))
}
