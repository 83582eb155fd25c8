package simulator

import (
	"context"

	"github.com/creditvision/creditvision-cli/internal/model"
)

// Fixed always returns the same feature vector. Deterministic test double for
// the random provider; also useful for replaying a known profile.
type Fixed struct {
	Features model.AltDataFeatures
}

func (f Fixed) Provide(_ context.Context, _ model.Occupation, _ float64) (model.AltDataFeatures, error) {
	return f.Features, nil
}
