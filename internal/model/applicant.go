// Package model defines the shared domain types for the recommendation pipeline.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Occupation is the enumerated applicant occupation category.
type Occupation string

const (
	OccupationSalaried     Occupation = "salaried"
	OccupationSelfEmployed Occupation = "self-employed"
	OccupationGigWorker    Occupation = "gig-worker"
	OccupationFarmer       Occupation = "farmer"
	OccupationFreelancer   Occupation = "freelancer"
	OccupationInformal     Occupation = "informal"
)

// Occupations lists every valid occupation category in display order.
var Occupations = []Occupation{
	OccupationSalaried,
	OccupationSelfEmployed,
	OccupationGigWorker,
	OccupationFarmer,
	OccupationFreelancer,
	OccupationInformal,
}

// Valid reports whether o is one of the enumerated categories.
func (o Occupation) Valid() bool {
	for _, v := range Occupations {
		if o == v {
			return true
		}
	}
	return false
}

func (o Occupation) String() string {
	return string(o)
}

// ParseOccupation normalizes a raw string into an Occupation.
// Accepts underscores and mixed case (e.g. "Gig_Worker" -> gig-worker).
func ParseOccupation(s string) (Occupation, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	o := Occupation(norm)
	if !o.Valid() {
		return "", eris.Wrapf(ErrInvalidInput, "unknown occupation %q", s)
	}
	return o, nil
}

// ApplicantInput is the declared input for a single recommendation request.
// Income is monthly. A zero RequestedPrincipal means "use the tier default".
type ApplicantInput struct {
	Income             float64    `json:"income"`
	Occupation         Occupation `json:"occupation"`
	TenureMonths       int        `json:"tenure_months,omitempty"`
	RequestedPrincipal float64    `json:"requested_principal,omitempty"`
}

// Validate checks the declared inputs before any simulation or scoring runs.
func (a ApplicantInput) Validate() error {
	if a.Income <= 0 {
		return eris.Wrapf(ErrInvalidInput, "income must be > 0 (got %.2f)", a.Income)
	}
	if !a.Occupation.Valid() {
		return eris.Wrapf(ErrInvalidInput, "unknown occupation %q", a.Occupation)
	}
	if a.TenureMonths < 0 {
		return eris.Wrapf(ErrInvalidInput, "tenure months must be >= 0 (got %d)", a.TenureMonths)
	}
	if a.RequestedPrincipal < 0 {
		return eris.Wrapf(ErrInvalidInput, "requested principal must be >= 0 (got %.2f)", a.RequestedPrincipal)
	}
	return nil
}

// AnnualIncome returns the annualized declared income.
func (a ApplicantInput) AnnualIncome() float64 {
	return a.Income * 12
}
