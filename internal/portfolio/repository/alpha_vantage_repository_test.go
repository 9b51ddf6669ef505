package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-stock-portfolio/internal/portfolio/config"
	"go-stock-portfolio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dailyFixture = `{
	"Meta Data": {"2. Symbol": "AAPL"},
	"Time Series (Daily)": {
		"2023-05-02": {"1. open": "170.09", "4. close": "168.54"},
		"2023-05-01": {"1. open": "169.28", "4. close": "169.59"},
		"2023-04-28": {"1. open": "168.49", "4. close": "169.68"}
	}
}`

const weeklyFixture = `{
	"Meta Data": {"2. Symbol": "AAPL"},
	"Weekly Adjusted Time Series": {
		"2020-07-24": {"4. close": "385.31"},
		"2020-07-17": {"4. close": "386.09"},
		"2020-06-11": {"4. close": "338.80"},
		"2020-02-25": {"4. close": "288.08"}
	}
}`

const rateLimitFixture = `{
	"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."
}`

func newTestRepository(baseURL string) QuoteRepository {
	cfg := &config.Config{}
	cfg.AlphaVantage.BaseURL = baseURL
	cfg.AlphaVantage.APIKey = "demo"
	cfg.AlphaVantage.MaxRequestPerMinute = 600
	return NewAlphaVantageRepository(cfg, &logger.Logger{Logger: zap.NewNop()})
}

func TestGetLatestClosePicksMostRecentDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(dailyFixture))
	}))
	defer srv.Close()

	price, err := newTestRepository(srv.URL).GetLatestClose(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "168.54", price.String())
}

func TestGetLatestCloseRateLimitedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateLimitFixture))
	}))
	defer srv.Close()

	_, err := newTestRepository(srv.URL).GetLatestClose(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestGetLatestCloseNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestRepository(srv.URL).GetLatestClose(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestGetLatestCloseNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := newTestRepository(srv.URL).GetLatestClose(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestGetWeeklySeriesNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_WEEKLY_ADJUSTED", r.URL.Query().Get("function"))
		w.Write([]byte(weeklyFixture))
	}))
	defer srv.Close()

	points, err := newTestRepository(srv.URL).GetWeeklySeries(context.Background(), "AAPL")

	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, "2020-07-24", points[0].Date.Format("2006-01-02"))
	assert.Equal(t, "385.31", points[0].Close)
	assert.Equal(t, "2020-02-25", points[3].Date.Format("2006-01-02"))
}

func TestGetWeeklySeriesMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateLimitFixture))
	}))
	defer srv.Close()

	_, err := newTestRepository(srv.URL).GetWeeklySeries(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}
