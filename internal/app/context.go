package app

import (
	"log/slog"

	"github.com/oggyb/matchmaker/internal/auth"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/metrics"
	"gorm.io/gorm"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Auth       *auth.Issuer
}

// New creates a new AppContext. Metrics get a private registry.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, issuer *auth.Issuer) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Metrics:    metrics.New(),
		Auth:       issuer,
	}
}
