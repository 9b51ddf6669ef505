package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition represents a purchased stock holding in a user's portfolio.
//
// CurrentPrice, CurrentPriceDate and PositionValue are derived fields owned
// by the valuation service; they are refreshed at most once per calendar
// day and are stale whenever CurrentPriceDate is not today.
type StockPosition struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	StockSymbol    string          `gorm:"not null" json:"stock_symbol"`
	NumberOfShares int             `gorm:"not null" json:"number_of_shares"`
	PurchasePrice  decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"purchase_price"`
	PurchaseDate   time.Time       `gorm:"not null" json:"purchase_date"`

	CurrentPrice     decimal.Decimal `gorm:"type:numeric(14,4);default:0" json:"current_price"`
	CurrentPriceDate *time.Time      `json:"current_price_date"`
	PositionValue    decimal.Decimal `gorm:"type:numeric(16,4);default:0" json:"position_value"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockPosition) TableName() string {
	return "stock_positions"
}
