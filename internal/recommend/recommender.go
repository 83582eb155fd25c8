// Package recommend runs the full assessment pipeline: validate input,
// simulate alternative-data signals, score, match a loan offer, and attach an
// explanation. The explanation and persistence stages are soft: their
// failures degrade the result but never fail the pipeline.
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/creditvision/creditvision-cli/internal/explain"
	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/internal/scoring"
	"github.com/creditvision/creditvision-cli/internal/simulator"
	"github.com/creditvision/creditvision-cli/internal/store"
)

// Recommender wires the pipeline stages together.
type Recommender struct {
	provider  simulator.Provider
	engine    *scoring.Engine
	explainer explain.Explainer
	store     store.Store // nil disables persistence
}

// New creates a Recommender. store may be nil.
func New(provider simulator.Provider, engine *scoring.Engine, explainer explain.Explainer, st store.Store) *Recommender {
	return &Recommender{
		provider:  provider,
		engine:    engine,
		explainer: explainer,
		store:     st,
	}
}

// Recommend runs the pipeline for one applicant. The returned result always
// has a non-empty Rationale: if the configured explainer fails, the
// deterministic fallback takes over and RationaleSource records that.
func (r *Recommender) Recommend(ctx context.Context, input model.ApplicantInput) (*model.RecommendationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	features, err := r.provider.Provide(ctx, input.Occupation, input.Income)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: simulate features")
	}

	score, breakdown, err := r.engine.Score(input, features)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: score")
	}

	offer, err := r.engine.MatchLoan(score, input)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: match loan")
	}

	result := &model.RecommendationResult{
		Applicant: input,
		Features:  features,
		Score:     score,
		Breakdown: breakdown,
		Offer:     offer,
	}

	rationale, source, err := r.explainer.Explain(ctx, result)
	if err != nil {
		zap.L().Warn("explanation unavailable, using fallback",
			zap.Error(err),
			zap.Int("score", int(score)))
		rationale, source, _ = explain.Fallback{}.Explain(ctx, result)
	}
	result.Rationale = rationale
	result.RationaleSource = source

	return result, nil
}

// RecommendAndSave runs the pipeline and persists the result when a store is
// configured. Persistence is best-effort: a save failure is logged, not
// returned.
func (r *Recommender) RecommendAndSave(ctx context.Context, input model.ApplicantInput) (*model.Recommendation, error) {
	result, err := r.Recommend(ctx, input)
	if err != nil {
		return nil, err
	}

	rec := &model.Recommendation{
		ID:        uuid.NewString(),
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}

	if r.store != nil {
		if err := r.store.SaveRecommendation(ctx, rec); err != nil {
			zap.L().Warn("failed to persist recommendation",
				zap.String("id", rec.ID),
				zap.Error(err))
		}
	}
	return rec, nil
}
