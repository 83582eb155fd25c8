// Package store persists recommendation history. Persistence is best-effort
// everywhere: a store failure never fails a recommendation request.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/creditvision/creditvision-cli/internal/config"
	"github.com/creditvision/creditvision-cli/internal/model"
)

// Filter specifies criteria for listing recommendations.
type Filter struct {
	Occupation model.Occupation `json:"occupation,omitempty"`
	MinScore   int              `json:"min_score,omitempty"`
	Limit      int              `json:"limit,omitempty"`
	Offset     int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for recommendation history.
type Store interface {
	SaveRecommendation(ctx context.Context, rec *model.Recommendation) error
	GetRecommendation(ctx context.Context, id string) (*model.Recommendation, error)
	ListRecommendations(ctx context.Context, filter Filter) ([]model.Recommendation, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store for the configured driver. An empty driver returns
// (nil, nil): persistence disabled.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
