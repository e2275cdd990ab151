package fx

import (
	"cdl-tracker/internal/bp"
	"cdl-tracker/internal/config"
	"cdl-tracker/internal/database"
	"cdl-tracker/internal/logger"
	"cdl-tracker/internal/repository"
	"cdl-tracker/internal/server"
	"cdl-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewWatermarkRepository),
	// source client
	fx.Provide(bp.NewClient),
	// svc
	fx.Provide(service.NewRefreshService),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewTrackerServer),
)
