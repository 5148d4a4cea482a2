package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kline candlestick data point for one time interval.
type Kline struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// ClosePrices extracts the closing-price series from klines.
func ClosePrices(klines []Kline) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
	}
	return closes
}
