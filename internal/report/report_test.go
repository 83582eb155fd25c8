package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/creditvision/creditvision-cli/internal/model"
)

func sampleResult() *model.RecommendationResult {
	return &model.RecommendationResult{
		Applicant: model.ApplicantInput{Income: 50_000, Occupation: model.OccupationSalaried},
		Features: model.AltDataFeatures{
			LocationStability:   0.8,
			MobileUsageScore:    90,
			UPITransactionCount: 40,
		},
		Score: 750,
		Breakdown: model.ScoreBreakdown{
			Components: map[string]float64{
				"location_stability": 0.8,
				"mobile_usage":       0.9,
				"transactions":       0.8,
				"income":             0.5,
			},
			Dominant: "mobile_usage",
		},
		Offer: model.LoanOffer{
			LenderTier:        "preferred",
			Principal:         2_400_000,
			AnnualRatePercent: 8.38,
			TermMonths:        240,
			EMI:               20_661.21,
			TotalPayment:      4_958_690.40,
			TotalInterest:     2_558_690.40,
		},
		Rationale:       "A strong digital footprint carried the score.",
		RationaleSource: "fallback",
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	require.NoError(t, WriteText(&buf, sampleResult(), generated))
	out := buf.String()

	assert.Contains(t, out, "CREDIT ASSESSMENT REPORT")
	assert.Contains(t, out, "2025-06-01")
	assert.Contains(t, out, "salaried")
	assert.Contains(t, out, "750 / 900")
	assert.Contains(t, out, "very good")
	assert.Contains(t, out, "Mobile usage")
	assert.Contains(t, out, "preferred")
	assert.Contains(t, out, "240 months")
	assert.Contains(t, out, "A strong digital footprint carried the score.")
	assert.Contains(t, out, "demonstration purposes only")
}

func TestWriteXLSX(t *testing.T) {
	recs := []model.Recommendation{
		{ID: "a", Result: *sampleResult(), CreatedAt: time.Now().UTC()},
		{ID: "b", Result: *sampleResult(), CreatedAt: time.Now().UTC()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, recs))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Recommendations", sheet.Name)
	// Header plus one row per recommendation.
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "a", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "b", sheet.Rows[2].Cells[0].Value)
}

func TestWrapReflowsText(t *testing.T) {
	out := wrap("one two three four five", 9, "> ")
	assert.Equal(t, "> one two\n> three\n> four five", out)
}
