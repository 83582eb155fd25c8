package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditvision/creditvision-cli/internal/model"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		income     float64
		occupation model.Occupation
	}{
		{
			name:       "plain amount and occupation",
			text:       "I earn 45000 per month and I am salaried",
			income:     45_000,
			occupation: model.OccupationSalaried,
		},
		{
			name:       "rupee symbol with grouping",
			text:       "monthly income ₹45,000, self employed",
			income:     45_000,
			occupation: model.OccupationSelfEmployed,
		},
		{
			name:       "rs prefix and k suffix",
			text:       "I make rs 30k a month as a delivery rider",
			income:     30_000,
			occupation: model.OccupationGigWorker,
		},
		{
			name:       "freelancer",
			text:       "freelance designer, 60000 monthly",
			income:     60_000,
			occupation: model.OccupationFreelancer,
		},
		{
			name:       "farmer with noise numbers",
			text:       "I am 42 years old, farming, and earn about 18000",
			income:     18_000,
			occupation: model.OccupationFarmer,
		},
		{
			name:       "daily wage informal",
			text:       "daily wage worker earning 12000 per month",
			income:     12_000,
			occupation: model.OccupationInformal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseMessage(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.income, input.Income)
			assert.Equal(t, tt.occupation, input.Occupation)
		})
	}
}

func TestParseMessageRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no amount", "I am salaried and need a loan"},
		{"no occupation", "I earn 45000 per month"},
		{"empty", ""},
		{"only noise numbers", "I am 42 and salaried with 3 kids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestFormatReply(t *testing.T) {
	r := &model.RecommendationResult{
		Applicant: model.ApplicantInput{Income: 50_000, Occupation: model.OccupationSalaried},
		Score:     750,
		Offer: model.LoanOffer{
			LenderTier:        "preferred",
			Principal:         2_400_000,
			AnnualRatePercent: 8.38,
			TermMonths:        240,
			EMI:               20_661.21,
		},
		Rationale: "A strong digital footprint carried the score.",
	}

	reply := FormatReply(r)
	assert.Contains(t, reply, "750")
	assert.Contains(t, reply, "very good")
	assert.Contains(t, reply, "preferred")
	assert.Contains(t, reply, "240 months")
	assert.Contains(t, reply, "A strong digital footprint carried the score.")
}
