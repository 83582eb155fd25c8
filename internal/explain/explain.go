// Package explain turns a recommendation into a natural-language rationale.
// The collaborator is best-effort: every implementation failure degrades to
// the deterministic fallback template, never to a failed request.
package explain

import (
	"context"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/pkg/anthropic"
)

// Explainer produces a rationale for a computed recommendation.
type Explainer interface {
	// Explain returns the rationale text and its source tag
	// ("anthropic" or "fallback").
	Explain(ctx context.Context, result *model.RecommendationResult) (string, string, error)
}

// NewFromConfig selects the explainer for the configured credentials: the
// Anthropic-backed one when a key is present, otherwise the fallback-only
// implementation. A missing key must never crash the scoring path.
func NewFromConfig(cfg config.AnthropicConfig) Explainer {
	if cfg.Key == "" {
		return Fallback{}
	}
	return NewAnthropic(anthropic.NewClient(cfg.Key), cfg)
}
