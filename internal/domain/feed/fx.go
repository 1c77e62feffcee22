// Package feed contains the feed domain module
package feed

import (
	"context"

	"go.uber.org/fx"

	telegramDelivery "github.com/feedfusion/bot-service/internal/domain/feed/delivery/telegram"
	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	kafkaRepo "github.com/feedfusion/bot-service/internal/domain/feed/repository/kafka"
	postgresRepo "github.com/feedfusion/bot-service/internal/domain/feed/repository/postgres"
	"github.com/feedfusion/bot-service/internal/domain/feed/usecase/buissines"
	"github.com/feedfusion/bot-service/internal/domain/feed/workers"
	"github.com/feedfusion/bot-service/internal/infrastructure/telegram"
)

// Module provides feed domain components for fx dependency injection
var Module = fx.Module("feed",
	// Repositories
	fx.Provide(postgresRepo.NewUserRepository),
	fx.Provide(postgresRepo.NewChannelRepository),
	fx.Provide(postgresRepo.NewSubscriptionRepository),
	fx.Provide(kafkaRepo.NewProducer),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Workers
	fx.Provide(workers.NewOrphanSweeper),

	// Register routes and lifecycle hooks
	fx.Invoke(wireAndRegister),
)

// wireAndRegister registers Telegram routes, the default message handler
// and lifecycle hooks for the sweeper and the event producer
func wireAndRegister(
	lc fx.Lifecycle,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	sweeper *workers.OrphanSweeper,
	producer deps.SubscriptionEventProducer,
) {
	router.RegisterRoutes(bot.Raw())

	// Forwarded posts and channel links arrive as plain messages, so they
	// go through the bot's default handler
	bot.SetDefaultHandler(handlers.HandleMessage)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			router.SetCommandMenu(ctx, bot.Raw())
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return producer.Close()
		},
	})
}
