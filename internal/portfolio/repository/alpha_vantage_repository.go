package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go-stock-portfolio/internal/portfolio/config"
	"go-stock-portfolio/internal/portfolio/dto"
	"go-stock-portfolio/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// ErrQuoteUnavailable is the single failure result of the quote provider:
// network errors, non-200 responses and rate-limit bodies without the
// expected series key all collapse into it. Callers degrade instead of
// failing hard.
var ErrQuoteUnavailable = errors.New("quote data unavailable")

const (
	dailySeriesKey  = "Time Series (Daily)"
	weeklySeriesKey = "Weekly Adjusted Time Series"

	providerDateLayout = "2006-01-02"
)

// QuoteRepository defines the interface for the external quote provider.
type QuoteRepository interface {
	GetLatestClose(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetWeeklySeries(ctx context.Context, symbol string) ([]dto.WeeklyPricePoint, error)
}

type alphaVantageRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewAlphaVantageRepository creates a quote repository backed by the Alpha
// Vantage HTTP API.
func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) QuoteRepository {
	maxPerMinute := cfg.AlphaVantage.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 5
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &alphaVantageRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

type closeEntry struct {
	Close string `json:"4. close"`
}

// GetLatestClose fetches the most recent daily closing price for a symbol.
func (r *alphaVantageRepository) GetLatestClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	body, err := r.sendRequest(ctx, symbol, "TIME_SERIES_DAILY")
	if err != nil {
		return decimal.Zero, err
	}

	var payload struct {
		Series map[string]closeEntry `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Series) == 0 {
		r.log.WarnContext(ctx, "Daily series key missing from provider response",
			logger.StringField("symbol", symbol), logger.StringField("key", dailySeriesKey))
		return decimal.Zero, ErrQuoteUnavailable
	}

	// The provider documents newest-first ordering, but JSON object order
	// does not survive decoding into a map. Selecting the maximum date key
	// gives the same answer without trusting it.
	var latest string
	for date := range payload.Series {
		if date > latest {
			latest = date
		}
	}

	price, err := decimal.NewFromString(payload.Series[latest].Close)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse closing price",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return decimal.Zero, ErrQuoteUnavailable
	}

	r.log.DebugContext(ctx, "Retrieved latest close",
		logger.StringField("symbol", symbol),
		logger.StringField("date", latest),
		logger.StringField("close", price.String()))
	return price, nil
}

// GetWeeklySeries fetches the weekly-adjusted series for a symbol, newest
// first. The close values keep the provider's string precision.
func (r *alphaVantageRepository) GetWeeklySeries(ctx context.Context, symbol string) ([]dto.WeeklyPricePoint, error) {
	body, err := r.sendRequest(ctx, symbol, "TIME_SERIES_WEEKLY_ADJUSTED")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Series map[string]closeEntry `json:"Weekly Adjusted Time Series"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Series) == 0 {
		r.log.WarnContext(ctx, "Weekly series key missing from provider response",
			logger.StringField("symbol", symbol), logger.StringField("key", weeklySeriesKey))
		return nil, ErrQuoteUnavailable
	}

	points := make([]dto.WeeklyPricePoint, 0, len(payload.Series))
	for date, entry := range payload.Series {
		parsed, err := time.Parse(providerDateLayout, date)
		if err != nil {
			r.log.WarnContext(ctx, "Skipping weekly entry with malformed date",
				logger.StringField("symbol", symbol), logger.StringField("date", date))
			continue
		}
		points = append(points, dto.WeeklyPricePoint{Date: parsed, Close: entry.Close})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
	return points, nil
}

func (r *alphaVantageRepository) sendRequest(ctx context.Context, symbol, function string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, ErrQuoteUnavailable
	}

	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("outputsize", "compact")
	q.Set("apikey", r.cfg.AlphaVantage.APIKey)
	addr := fmt.Sprintf("%s/query?%s", r.cfg.AlphaVantage.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create provider request",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, ErrQuoteUnavailable
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Network problem retrieving stock data",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, ErrQuoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.WarnContext(ctx, "Unexpected status code from quote provider",
			logger.StringField("symbol", symbol), logger.IntField("status_code", resp.StatusCode))
		return nil, ErrQuoteUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read provider response body",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, ErrQuoteUnavailable
	}
	return body, nil
}
