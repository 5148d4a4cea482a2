package collector

import (
	"context"
	"fmt"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

// BybitKlineProvider implements KlineProvider for the Bybit exchange.
type BybitKlineProvider struct {
	client *bybit.Client
}

// NewBybitKlineProvider creates a new Bybit kline provider.
func NewBybitKlineProvider(client *bybit.Client) *BybitKlineProvider {
	return &BybitKlineProvider{client: client}
}

// GetKlines is not implemented for Bybit. Callers treat the failure as an
// empty historical series; indicator-based strategies then sit out the run.
func (p *BybitKlineProvider) GetKlines(context.Context, domain.Pair, string, int) ([]domain.Kline, error) {
	return nil, fmt.Errorf("bybit kline history is not supported - use the binance or hyperliquid platform for indicator strategies")
}
