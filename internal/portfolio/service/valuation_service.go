package service

import (
	"context"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/pkg/logger"
	"go-stock-portfolio/pkg/utils"

	"github.com/shopspring/decimal"
)

// ValuationService owns the freshness policy of a position's derived price
// fields: CurrentPrice, CurrentPriceDate and PositionValue are updated at
// most once per calendar day.
type ValuationService interface {
	// Refresh updates the position's derived fields in place if they are
	// stale. It never returns an error: on provider failure the previously
	// known values are kept. The caller is responsible for persisting the
	// position afterwards.
	Refresh(ctx context.Context, position *entity.StockPosition) bool
}

// NewValuationService creates a new valuation service.
func NewValuationService(quoteRepo repository.QuoteRepository, log *logger.Logger, now func() time.Time) ValuationService {
	return &valuationService{
		quoteRepo: quoteRepo,
		logger:    log,
		now:       now,
	}
}

type valuationService struct {
	quoteRepo repository.QuoteRepository
	logger    *logger.Logger
	now       func() time.Time
}

// Refresh reports whether the position was changed.
func (s *valuationService) Refresh(ctx context.Context, position *entity.StockPosition) bool {
	today := s.now()
	if position.CurrentPriceDate != nil && utils.SameCalendarDay(today, *position.CurrentPriceDate) {
		return false
	}

	price, err := s.quoteRepo.GetLatestClose(ctx, position.StockSymbol)
	if err != nil {
		// Stale data beats no data: keep the previously known values.
		s.logger.WarnContext(ctx, "Keeping stale valuation, quote unavailable",
			logger.StringField("symbol", position.StockSymbol), logger.ErrorField(err))
		return false
	}
	if price.Cmp(decimal.Zero) <= 0 {
		s.logger.WarnContext(ctx, "Keeping stale valuation, non-positive price",
			logger.StringField("symbol", position.StockSymbol),
			logger.StringField("price", price.String()))
		return false
	}

	position.CurrentPrice = price
	position.CurrentPriceDate = &today
	position.PositionValue = price.Mul(decimal.NewFromInt(int64(position.NumberOfShares)))

	s.logger.DebugContext(ctx, "Refreshed position valuation",
		logger.StringField("symbol", position.StockSymbol),
		logger.StringField("current_price", price.String()),
		logger.StringField("position_value", position.PositionValue.String()))
	return true
}
