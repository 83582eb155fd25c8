package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/creditvision/creditvision-cli/internal/explain"
	"github.com/creditvision/creditvision-cli/internal/recommend"
	"github.com/creditvision/creditvision-cli/internal/scoring"
	"github.com/creditvision/creditvision-cli/internal/simulator"
	"github.com/creditvision/creditvision-cli/internal/store"
)

// pipelineEnv bundles the wired components a command needs.
type pipelineEnv struct {
	Engine      *scoring.Engine
	Recommender *recommend.Recommender
	Store       store.Store // nil when persistence is disabled
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("failed to close store", zap.Error(err))
		}
	}
}

// initPipeline builds the recommendation pipeline from config, with optional
// overrides for the simulator seed and the store driver.
func initPipeline(ctx context.Context, seed uint64, withStore bool) (*pipelineEnv, error) {
	simCfg := cfg.Simulator
	if seed != 0 {
		simCfg.Seed = seed
	}
	provider := simulator.NewRandom(simCfg)

	engine, err := scoring.NewEngine(cfg.Scoring, cfg.Tiers)
	if err != nil {
		return nil, err
	}

	explainer := explain.NewFromConfig(cfg.Anthropic)

	var st store.Store
	if withStore {
		st, err = store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		if st != nil {
			if err := st.Migrate(ctx); err != nil {
				st.Close()
				return nil, err
			}
		}
	}

	return &pipelineEnv{
		Engine:      engine,
		Recommender: recommend.New(provider, engine, explainer, st),
		Store:       st,
	}, nil
}
