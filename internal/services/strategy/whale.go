package strategy

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"go.uber.org/zap"
)

// WhaleWatcher reports whether large on-chain transfers were observed recently.
type WhaleWatcher interface {
	WhaleActivity(ctx context.Context) (bool, error)
}

// Luck factor bounds for the simulated signal.
var (
	luckFactorMin = 0.4
	luckFactorMax = 0.6
)

// weighted action set: whales buy more often than they distribute.
var whaleActions = []domain.Decision{domain.Buy, domain.Buy, domain.Sell}

// WhaleStrategy copies simulated whale activity. A "signal" fires with the
// strategy's luck factor; when it fires the copied action is drawn from a
// buy-weighted set, otherwise the strategy holds.
//
// When an on-chain watcher is configured it replaces the simulated signal;
// watcher errors fall back to simulation. The luck factor is drawn once per
// process and deliberately not persisted, so restarts reshuffle it.
type WhaleStrategy struct {
	luckFactor float64
	watcher    WhaleWatcher
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewWhaleStrategy creates the whale-tracking competitor. watcher may be nil.
func NewWhaleStrategy(luckFactor float64, watcher WhaleWatcher, rng *rand.Rand, logger *zap.Logger) *WhaleStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhaleStrategy{luckFactor: luckFactor, watcher: watcher, rng: rng, logger: logger}
}

func drawLuckFactor(rng *rand.Rand) float64 {
	return luckFactorMin + rng.Float64()*(luckFactorMax-luckFactorMin)
}

// Name returns the competitor name.
func (s *WhaleStrategy) Name() string {
	return NameWhaleHunter
}

// LuckFactor returns the fixed signal probability.
func (s *WhaleStrategy) LuckFactor() float64 {
	return s.luckFactor
}

// Decide copies whale activity when a signal fires, otherwise holds.
func (s *WhaleStrategy) Decide(ctx context.Context, _ decimal.Decimal, _ []domain.Kline) domain.Decision {
	if !s.signalFired(ctx) {
		s.logger.Info("no whale activity detected, holding",
			zap.String("strategy", s.Name()))
		return domain.Hold
	}

	decision := whaleActions[s.rng.Intn(len(whaleActions))]
	s.logger.Info("whale detected, copying action",
		zap.String("strategy", s.Name()),
		zap.String("decision", decision.String()))
	return decision
}

func (s *WhaleStrategy) signalFired(ctx context.Context) bool {
	if s.watcher != nil {
		detected, err := s.watcher.WhaleActivity(ctx)
		if err == nil {
			return detected
		}
		s.logger.Warn("whale watcher failed, falling back to simulated signal",
			zap.String("strategy", s.Name()),
			zap.Error(err))
	}
	return s.rng.Float64() < s.luckFactor
}
