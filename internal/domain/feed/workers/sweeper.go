// Package workers contains background jobs for the feed domain
package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/config"
	"github.com/feedfusion/bot-service/internal/domain/feed/usecase/buissines"
)

// OrphanSweeper periodically removes users with zero live subscriptions.
// A failed run is only logged; the next attempt happens at the next tick.
type OrphanSweeper struct {
	uc     *buissines.UseCase
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewOrphanSweeper creates a sweeper scheduled by the configured cron
// expression
func NewOrphanSweeper(cfg *config.SweeperConfig, uc *buissines.UseCase, logger zerolog.Logger) (*OrphanSweeper, error) {
	s := &OrphanSweeper{
		uc:     uc,
		cron:   cron.New(),
		logger: logger,
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid sweeper schedule %q: %w", cfg.Schedule, err)
	}

	return s, nil
}

// Start starts the sweeper schedule
func (s *OrphanSweeper) Start() {
	s.logger.Info().Msg("Starting orphan user sweeper")
	s.cron.Start()
}

// Stop stops the sweeper schedule and waits for a running job to finish
func (s *OrphanSweeper) Stop() {
	s.logger.Info().Msg("Stopping orphan user sweeper")
	<-s.cron.Stop().Done()
}

// run executes one sweep
func (s *OrphanSweeper) run() {
	s.logger.Info().Msg("Cleaning users without subscriptions")

	deleted, err := s.uc.CleanUsersWithoutSubscriptions(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to clean users without subscriptions")
		return
	}

	s.logger.Info().Int64("deleted", deleted).Msg("Orphan user sweep finished")
}
