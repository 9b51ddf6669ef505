package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/repository"
	"go-stock-portfolio/pkg/logger"

	"github.com/shopspring/decimal"
)

var (
	// ErrPositionNotFound is returned for a missing or foreign position.
	ErrPositionNotFound = errors.New("stock position not found")
	// ErrInvalidPosition is returned for a malformed add request.
	ErrInvalidPosition = errors.New("invalid stock position")
)

// StockService manages a user's portfolio positions.
type StockService interface {
	AddStock(ctx context.Context, userID uint, req *dto.AddStockRequest) (*dto.StockPositionResponse, error)
	GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioResponse, error)
	GetChart(ctx context.Context, userID, positionID uint) (*dto.ChartSeries, error)
	DeleteStock(ctx context.Context, userID, positionID uint) error
}

// NewStockService creates a new stock service.
func NewStockService(
	positionRepo repository.StockPositionRepository,
	valuation ValuationService,
	charts ChartService,
	log *logger.Logger,
) StockService {
	return &stockService{
		positionRepo: positionRepo,
		valuation:    valuation,
		charts:       charts,
		logger:       log,
	}
}

type stockService struct {
	positionRepo repository.StockPositionRepository
	valuation    ValuationService
	charts       ChartService
	logger       *logger.Logger
}

// AddStock validates and stores a new position.
func (s *stockService) AddStock(ctx context.Context, userID uint, req *dto.AddStockRequest) (*dto.StockPositionResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.StockSymbol))
	if symbol == "" || req.NumberOfShares <= 0 {
		return nil, ErrInvalidPosition
	}
	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil || price.Cmp(decimal.Zero) <= 0 {
		return nil, ErrInvalidPosition
	}
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, ErrInvalidPosition
	}

	position := &entity.StockPosition{
		UserID:         userID,
		StockSymbol:    symbol,
		NumberOfShares: req.NumberOfShares,
		PurchasePrice:  price,
		PurchaseDate:   purchaseDate,
		CurrentPrice:   decimal.Zero,
		PositionValue:  decimal.Zero,
	}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Added new stock position",
		logger.StringField("symbol", symbol), logger.Field("user_id", userID))
	return mapToPositionResponse(position), nil
}

// GetPortfolio lists the user's positions, refreshing stale valuations and
// persisting any that changed.
func (s *stockService) GetPortfolio(ctx context.Context, userID uint) (*dto.PortfolioResponse, error) {
	positions, err := s.positionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PortfolioResponse{
		Positions:  make([]dto.StockPositionResponse, 0, len(positions)),
		TotalValue: decimal.Zero,
	}
	for i := range positions {
		position := &positions[i]
		if s.valuation.Refresh(ctx, position) {
			if err := s.positionRepo.Update(ctx, position); err != nil {
				s.logger.ErrorContext(ctx, "Failed to persist refreshed valuation",
					logger.Field("position_id", position.ID), logger.ErrorField(err))
			}
		}
		resp.Positions = append(resp.Positions, *mapToPositionResponse(position))
		resp.TotalValue = resp.TotalValue.Add(position.PositionValue)
	}
	return resp, nil
}

// GetChart builds the weekly chart series for one of the user's positions.
func (s *stockService) GetChart(ctx context.Context, userID, positionID uint) (*dto.ChartSeries, error) {
	position, err := s.ownedPosition(ctx, userID, positionID)
	if err != nil {
		return nil, err
	}
	series := s.charts.BuildChartSeries(ctx, position)
	return &series, nil
}

// DeleteStock removes one of the user's positions.
func (s *stockService) DeleteStock(ctx context.Context, userID, positionID uint) error {
	if _, err := s.ownedPosition(ctx, userID, positionID); err != nil {
		return err
	}
	return s.positionRepo.Delete(ctx, positionID)
}

// ownedPosition loads a position and checks it belongs to the user. A
// foreign position is reported as not found, not as forbidden.
func (s *stockService) ownedPosition(ctx context.Context, userID, positionID uint) (*entity.StockPosition, error) {
	position, err := s.positionRepo.FindByID(ctx, positionID)
	if err != nil {
		return nil, ErrPositionNotFound
	}
	if position.UserID != userID {
		return nil, ErrPositionNotFound
	}
	return position, nil
}

func mapToPositionResponse(position *entity.StockPosition) *dto.StockPositionResponse {
	return &dto.StockPositionResponse{
		ID:               position.ID,
		StockSymbol:      position.StockSymbol,
		NumberOfShares:   position.NumberOfShares,
		PurchasePrice:    position.PurchasePrice,
		PurchaseDate:     position.PurchaseDate,
		CurrentPrice:     position.CurrentPrice,
		CurrentPriceDate: position.CurrentPriceDate,
		PositionValue:    position.PositionValue,
	}
}
