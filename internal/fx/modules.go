package fx

import (
	"database/sql"

	"dartleague-tracker/internal/api"
	"dartleague-tracker/internal/config"
	"dartleague-tracker/internal/database"
	"dartleague-tracker/internal/ingest"
	"dartleague-tracker/internal/logger"
	"dartleague-tracker/internal/repository"
	"dartleague-tracker/internal/server"
	"dartleague-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideCacheRepository(sqlDB *sql.DB, cfg *config.Config, log zerolog.Logger) *repository.CacheRepository {
	return repository.NewCacheRepository(sqlDB, cfg.CacheTTL, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(ProvideCacheRepository),
	// recap client
	fx.Provide(api.NewRecapClient),
	// ingest
	fx.Provide(ingest.NewLoader),
	// svc
	fx.Provide(service.NewDetailService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewPipelineService),
	// server
	fx.Provide(server.NewStatsServer),
)
