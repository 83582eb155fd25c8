package model

import "time"

// ScoreBreakdown records how the civil score was assembled, for transparency
// and for the explanation prompt.
type ScoreBreakdown struct {
	// Components holds each normalized signal in [0,1], keyed by component name.
	Components map[string]float64 `json:"components"`
	// Weighted holds each component's weighted contribution to the score.
	Weighted map[string]float64 `json:"weighted"`
	// Dominant names the component with the largest weighted contribution.
	Dominant string `json:"dominant"`
}

// RecommendationResult is the unit returned to every external collaborator
// (CLI output, serve API, webhook reply, report writer).
type RecommendationResult struct {
	Applicant ApplicantInput  `json:"applicant"`
	Features  AltDataFeatures `json:"features"`
	Score     CivilScore      `json:"score"`
	Breakdown ScoreBreakdown  `json:"breakdown"`
	Offer     LoanOffer       `json:"offer"`
	// Rationale is the natural-language explanation. Best-effort: a fallback
	// template when the text-generation collaborator is unavailable.
	Rationale string `json:"rationale"`
	// RationaleSource is "anthropic" or "fallback".
	RationaleSource string `json:"rationale_source"`
}

// Recommendation is the persisted record of a single recommendation request.
type Recommendation struct {
	ID        string               `json:"id"`
	Result    RecommendationResult `json:"result"`
	CreatedAt time.Time            `json:"created_at"`
}
