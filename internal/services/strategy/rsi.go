package strategy

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"github.com/vadiminshakov/paperbots/internal/services/market/indicators"
	"go.uber.org/zap"
)

const rsiPeriod = 14

// Fixed mean-reversion thresholds: below 30 is oversold, above 70 overbought.
var (
	rsiOversold   = decimal.NewFromInt(30)
	rsiOverbought = decimal.NewFromInt(70)
)

// RSIStrategy trades on the 14-period Relative Strength Index of the close
// series: BUY when oversold, SELL when overbought, HOLD in between.
type RSIStrategy struct {
	logger *zap.Logger
}

// NewRSIStrategy creates the technical-indicator competitor.
func NewRSIStrategy(logger *zap.Logger) *RSIStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSIStrategy{logger: logger}
}

// Name returns the competitor name.
func (s *RSIStrategy) Name() string {
	return NameRoboQuant
}

// Decide evaluates the latest RSI value. Insufficient history or an undefined
// latest value yields HOLD.
func (s *RSIStrategy) Decide(_ context.Context, _ decimal.Decimal, klines []domain.Kline) domain.Decision {
	if len(klines) < rsiPeriod {
		s.logger.Info("insufficient data for RSI, holding",
			zap.String("strategy", s.Name()),
			zap.Int("candles", len(klines)))
		return domain.Hold
	}

	rsi, err := indicators.LatestRSI(domain.ClosePrices(klines), rsiPeriod)
	if err != nil {
		s.logger.Info("RSI undefined, holding",
			zap.String("strategy", s.Name()),
			zap.Error(err))
		return domain.Hold
	}

	var decision domain.Decision
	switch {
	case rsi.LessThan(rsiOversold):
		decision = domain.Buy
	case rsi.GreaterThan(rsiOverbought):
		decision = domain.Sell
	default:
		decision = domain.Hold
	}

	s.logger.Info("RSI decision",
		zap.String("strategy", s.Name()),
		zap.String("rsi", rsi.StringFixed(2)),
		zap.String("decision", decision.String()))
	return decision
}
