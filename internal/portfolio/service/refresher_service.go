package service

import (
	"context"

	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefresherService refreshes every stored position's valuation on a cron
// schedule, so portfolios are priced before users first look at them.
// Refreshes are independent per position and order-insensitive.
type RefresherService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshAll(ctx context.Context)
}

// NewRefresherService creates a new valuation refresher.
func NewRefresherService(
	positionRepo repository.StockPositionRepository,
	valuation ValuationService,
	log *logger.Logger,
	cronSpec string,
) RefresherService {
	return &refresherService{
		positionRepo: positionRepo,
		valuation:    valuation,
		logger:       log,
		cronSpec:     cronSpec,
		cron:         cron.New(),
	}
}

type refresherService struct {
	positionRepo repository.StockPositionRepository
	valuation    ValuationService
	logger       *logger.Logger
	cronSpec     string
	cron         *cron.Cron
}

// Start schedules the refresh job and starts the cron runner.
func (s *refresherService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		s.RefreshAll(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Valuation refresher started", logger.StringField("cron", s.cronSpec))
	return nil
}

// Stop stops the cron runner, waiting for a running refresh to finish.
func (s *refresherService) Stop() {
	<-s.cron.Stop().Done()
}

// RefreshAll refreshes every stored position once.
func (s *refresherService) RefreshAll(ctx context.Context) {
	positions, err := s.positionRepo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list positions for refresh", logger.ErrorField(err))
		return
	}

	refreshed := 0
	for i := range positions {
		position := &positions[i]
		if !s.valuation.Refresh(ctx, position) {
			continue
		}
		if err := s.positionRepo.Update(ctx, position); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist refreshed valuation",
				logger.Field("position_id", position.ID), logger.ErrorField(err))
			continue
		}
		refreshed++
	}
	s.logger.InfoContext(ctx, "Valuation refresh completed",
		logger.IntField("total", len(positions)), logger.IntField("refreshed", refreshed))
}
