package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest is the payload for adding a position to the portfolio.
type AddStockRequest struct {
	StockSymbol    string `json:"stock_symbol"`
	NumberOfShares int    `json:"number_of_shares"`
	PurchasePrice  string `json:"purchase_price"`
	PurchaseDate   string `json:"purchase_date"`
}

// StockPositionResponse is the API view of a stored position.
type StockPositionResponse struct {
	ID               uint            `json:"id"`
	StockSymbol      string          `json:"stock_symbol"`
	NumberOfShares   int             `json:"number_of_shares"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	CurrentPriceDate *time.Time      `json:"current_price_date"`
	PositionValue    decimal.Decimal `json:"position_value"`
}

// PortfolioResponse lists a user's positions with the total portfolio value.
type PortfolioResponse struct {
	Positions  []StockPositionResponse `json:"positions"`
	TotalValue decimal.Decimal         `json:"total_value"`
}
