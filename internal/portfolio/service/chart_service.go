package service

import (
	"context"
	"fmt"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/pkg/logger"
	"go-stock-portfolio/pkg/utils"
)

const (
	chartUnavailableTitle = "Stock chart is unavailable"
	chartWindowWeeks      = 12
	chartDateLayout       = "2006-01-02"
)

// ChartService builds the weekly price series used to chart a position.
type ChartService interface {
	// BuildChartSeries returns the position's weekly closes since the later
	// of the purchase date and 12 weeks ago, oldest first. On provider
	// failure the series is empty and carries a fixed unavailable title.
	BuildChartSeries(ctx context.Context, position *entity.StockPosition) dto.ChartSeries
}

// NewChartService creates a new chart service.
func NewChartService(quoteRepo repository.QuoteRepository, log *logger.Logger, now func() time.Time) ChartService {
	return &chartService{
		quoteRepo: quoteRepo,
		logger:    log,
		now:       now,
	}
}

type chartService struct {
	quoteRepo repository.QuoteRepository
	logger    *logger.Logger
	now       func() time.Time
}

func (s *chartService) BuildChartSeries(ctx context.Context, position *entity.StockPosition) dto.ChartSeries {
	weekly, err := s.quoteRepo.GetWeeklySeries(ctx, position.StockSymbol)
	if err != nil {
		s.logger.WarnContext(ctx, "Rendering without chart, weekly series unavailable",
			logger.StringField("symbol", position.StockSymbol), logger.ErrorField(err))
		return dto.ChartSeries{Title: chartUnavailableTitle, Points: []dto.ChartPoint{}}
	}

	windowStart := utils.LaterDate(position.PurchaseDate, utils.WeeksBefore(s.now(), chartWindowWeeks))

	// The series arrives newest first; collect the window and reverse so
	// the chart reads chronologically.
	var filtered []dto.WeeklyPricePoint
	for _, point := range weekly {
		if point.Date.After(windowStart) {
			filtered = append(filtered, point)
		}
	}

	points := make([]dto.ChartPoint, 0, len(filtered))
	for i := len(filtered) - 1; i >= 0; i-- {
		points = append(points, dto.ChartPoint{
			Date:  filtered[i].Date.Format(chartDateLayout),
			Close: filtered[i].Close,
		})
	}

	return dto.ChartSeries{
		Title:  fmt.Sprintf("Weekly Prices (%s)", position.StockSymbol),
		Points: points,
	}
}
