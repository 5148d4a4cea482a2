// Package collector provides utilities for collecting market data
// such as klines (candlestick data) from cryptocurrency exchanges.
package collector

import (
	"context"

	"github.com/vadiminshakov/paperbots/internal/domain"
)

// KlineProvider defines the interface for fetching kline (candlestick) data.
type KlineProvider interface {
	// GetKlines fetches historical kline data for a trading pair.
	// limit specifies the maximum number of klines to fetch,
	// interval the kline interval (e.g., "1m", "5m", "1h", "4h").
	GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.Kline, error)
}
