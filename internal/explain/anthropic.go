package explain

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/internal/resilience"
	"github.com/creditvision/creditvision-cli/pkg/anthropic"
)

// Anthropic generates rationales via the Anthropic messages API. One retry
// with backoff on transient failures, then the error surfaces to the caller
// (who falls back); the numeric result is never blocked.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewAnthropic creates an Anthropic-backed explainer.
func NewAnthropic(client anthropic.Client, cfg config.AnthropicConfig) *Anthropic {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Anthropic{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

func (a *Anthropic) Explain(ctx context.Context, result *model.RecommendationResult) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := BuildPrompt(result)

	retryCfg := resilience.ExplainRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "explain")

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     a.model,
			MaxTokens: a.maxTokens,
			System:    systemPrompt,
			Messages: []anthropic.Message{
				{Role: "user", Content: prompt},
			},
		})
	})
	if err != nil {
		return "", "", eris.Wrap(model.ErrExplanationUnavailable, err.Error())
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", "", eris.Wrap(model.ErrExplanationUnavailable, "empty response")
	}

	resp.Usage.LogUsage(a.model, "explain")

	return text, "anthropic", nil
}
