// Package pricer provides current market prices from supported exchanges.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

// Pricer defines an interface for getting the current price of a trading pair.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}
