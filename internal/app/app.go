// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/feedfusion/bot-service/config"
	"github.com/feedfusion/bot-service/internal/domain"
	"github.com/feedfusion/bot-service/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot)
		infrastructure.Module,

		// Domain (feed business logic)
		domain.Module,
	)
}
