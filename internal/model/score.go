package model

// Civil score scale bounds. The score is hard-clamped into this range.
const (
	ScoreMin = 300
	ScoreMax = 900
)

// CivilScore is the bounded creditworthiness score in [ScoreMin, ScoreMax].
type CivilScore int

// InRange reports whether the score sits inside the scale bounds.
func (s CivilScore) InRange() bool {
	return s >= ScoreMin && s <= ScoreMax
}

// Rating maps a score to a coarse human-readable band.
func (s CivilScore) Rating() string {
	switch {
	case s >= 800:
		return "excellent"
	case s >= 740:
		return "very good"
	case s >= 670:
		return "good"
	case s >= 580:
		return "fair"
	default:
		return "poor"
	}
}
