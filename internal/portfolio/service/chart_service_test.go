package service

import (
	"context"
	"testing"
	"time"

	"go-stock-portfolio/internal/entity"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/internal/portfolio/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weeklyStub serves a fixed weekly series, newest first.
type weeklyStub struct {
	points []dto.WeeklyPricePoint
	err    error
}

func (s *weeklyStub) GetLatestClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	panic("not used")
}

func (s *weeklyStub) GetWeeklySeries(ctx context.Context, symbol string) ([]dto.WeeklyPricePoint, error) {
	return s.points, s.err
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildChartSeriesWindowAndOrdering(t *testing.T) {
	stub := &weeklyStub{points: []dto.WeeklyPricePoint{
		{Date: day("2020-07-24"), Close: "385.31"},
		{Date: day("2020-07-17"), Close: "386.09"},
		{Date: day("2020-06-11"), Close: "338.80"},
		{Date: day("2020-02-25"), Close: "288.08"},
	}}

	// today = 2020-07-28, purchase 2020-01-01: the window starts twelve
	// weeks back, 2020-05-05, which excludes the February entry.
	now := func() time.Time { return day("2020-07-28") }
	svc := NewChartService(stub, testLogger(), now)

	position := &entity.StockPosition{
		StockSymbol:  "AAPL",
		PurchaseDate: day("2020-01-01"),
	}
	series := svc.BuildChartSeries(context.Background(), position)

	assert.Equal(t, "Weekly Prices (AAPL)", series.Title)
	require.Len(t, series.Points, 3)
	assert.Equal(t, "2020-06-11", series.Points[0].Date)
	assert.Equal(t, "338.80", series.Points[0].Close)
	assert.Equal(t, "2020-07-17", series.Points[1].Date)
	assert.Equal(t, "2020-07-24", series.Points[2].Date)
}

func TestBuildChartSeriesPurchaseDateBoundsWindow(t *testing.T) {
	stub := &weeklyStub{points: []dto.WeeklyPricePoint{
		{Date: day("2020-07-24"), Close: "385.31"},
		{Date: day("2020-07-17"), Close: "386.09"},
		{Date: day("2020-06-11"), Close: "338.80"},
	}}

	now := func() time.Time { return day("2020-07-28") }
	svc := NewChartService(stub, testLogger(), now)

	// Purchased after the twelve-week mark: only strictly later entries
	// survive.
	position := &entity.StockPosition{
		StockSymbol:  "AAPL",
		PurchaseDate: day("2020-07-17"),
	}
	series := svc.BuildChartSeries(context.Background(), position)

	require.Len(t, series.Points, 1)
	assert.Equal(t, "2020-07-24", series.Points[0].Date)
}

func TestBuildChartSeriesUnavailable(t *testing.T) {
	stub := &weeklyStub{err: repository.ErrQuoteUnavailable}
	svc := NewChartService(stub, testLogger(), func() time.Time { return day("2020-07-28") })

	position := &entity.StockPosition{
		StockSymbol:  "AAPL",
		PurchaseDate: day("2020-01-01"),
	}
	series := svc.BuildChartSeries(context.Background(), position)

	assert.Equal(t, "Stock chart is unavailable", series.Title)
	assert.Empty(t, series.Points)
}
